package db

import (
	"context"
	"errors"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestPing(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), gormDB))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, Ping(context.Background(), gormDB))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose(t *testing.T) {
	gormDB, mock := NewMockDB()
	mock.ExpectClose()

	assert.NoError(t, Close(gormDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormConfig(t *testing.T) {
	cfg := GormConfig()
	assert.True(t, cfg.TranslateError)
	assert.Equal(t, "UTC", cfg.NowFunc().Location().String())
}
