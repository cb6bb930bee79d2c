package services

import (
	"errors"
	"fmt"
	"time"

	"uservice/src/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Clock is the time source shared by the services. Tests replace it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// notFound turns a missing row into types.ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", types.ErrNotFound, what)
	}
	return err
}

func strs(v []string) datatypes.JSONSlice[string] {
	if v == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](v)
}
