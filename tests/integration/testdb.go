// Package integration exercises the HTTP API end to end against an
// in-memory SQLite database.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itam/backend/internal/infrastructure/persistence"
)

// NewTestDB opens a fresh in-memory database with the full schema applied
func NewTestDB(t *testing.T) *persistence.Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	db := &persistence.Database{DB: gormDB}
	require.NoError(t, db.Migrate(), "Failed to migrate test database")
	return db
}
