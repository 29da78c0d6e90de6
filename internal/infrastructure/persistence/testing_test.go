package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/identity"
	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/settings"
)

// setupTestDB creates an isolated in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&org.Category{},
		&org.Subcategory{},
		&org.Location{},
		&org.Vendor{},
		&asset.Asset{},
		&asset.Event{},
		&identity.User{},
		&settings.Setting{},
	)
	require.NoError(t, err)

	return db
}
