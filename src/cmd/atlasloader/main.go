// Command atlasloader prints the postgres schema of the gorm models for atlas migrations.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"uservice/src/models"

	"ariga.io/atlas-provider-gorm/gormschema"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(models.All()...)
	if err != nil {
		log.Fatalf("failed to load gorm schema: %s\n", err.Error())
	}
	if _, err := io.WriteString(os.Stdout, stmts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %s\n", err.Error())
		os.Exit(1)
	}
}
