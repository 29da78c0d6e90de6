package asset

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/settings"
	"github.com/itam/backend/internal/domain/shared"
	"github.com/itam/backend/internal/infrastructure/persistence"
)

type serviceFixture struct {
	service   *Service
	assets    asset.Repository
	locations org.LocationRepository
	settings  settings.Repository
	location  *org.Location
	category  *org.Category
}

func setupService(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&org.Category{},
		&org.Subcategory{},
		&org.Location{},
		&org.Vendor{},
		&asset.Asset{},
		&asset.Event{},
		&settings.Setting{},
	))

	assets := persistence.NewGormAssetRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	locations := persistence.NewGormLocationRepository(db)
	settingsRepo := persistence.NewGormSettingRepository(db)

	ctx := context.Background()
	location, err := org.NewLocation("HQ", "Headquarters")
	require.NoError(t, err)
	require.NoError(t, locations.Save(ctx, location))
	category, err := org.NewCategory("COMP", "Computers")
	require.NoError(t, err)
	require.NoError(t, categories.Save(ctx, category))

	return &serviceFixture{
		service:   NewService(assets, categories, locations, settingsRepo),
		assets:    assets,
		locations: locations,
		settings:  settingsRepo,
		location:  location,
		category:  category,
	}
}

func TestService_GenerateTag(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	year := time.Now().Year()

	t.Run("sequences per location, category and year", func(t *testing.T) {
		tag, err := f.service.GenerateTag(ctx, &f.location.ID, &f.category.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ESS-HQ-COMP-%d-0001", year), tag)

		_, err = f.service.Create(ctx, CreateAssetRequest{
			Name:       "MacBook Pro",
			LocationID: &f.location.ID,
			CategoryID: &f.category.ID,
		})
		require.NoError(t, err)

		tag, err = f.service.GenerateTag(ctx, &f.location.ID, &f.category.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ESS-HQ-COMP-%d-0002", year), tag)
	})

	t.Run("requires location and category", func(t *testing.T) {
		_, err := f.service.GenerateTag(ctx, nil, &f.category.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_INPUT", derr.Code)
	})

	t.Run("honors the configured prefix", func(t *testing.T) {
		require.NoError(t, f.settings.Set(ctx, settings.KeyAssetTagPrefix, "ACME"))
		tag, err := f.service.GenerateTag(ctx, &f.location.ID, &f.category.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ACME-HQ-COMP-%d-0001", year), tag)
	})
}

func TestService_Create(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	t.Run("explicit tag", func(t *testing.T) {
		cost := decimal.RequireFromString("999.99")
		a, err := f.service.Create(ctx, CreateAssetRequest{
			AssetTag: "CUSTOM-1",
			Name:     "Printer",
			Cost:     &cost,
		})
		require.NoError(t, err)
		assert.Equal(t, "CUSTOM-1", a.AssetTag)
		assert.Equal(t, asset.DefaultStatus, a.Status)
		assert.True(t, cost.Equal(a.Cost))
	})

	t.Run("duplicate tag rejected", func(t *testing.T) {
		_, err := f.service.Create(ctx, CreateAssetRequest{AssetTag: "CUSTOM-1", Name: "Other"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)
	})

	t.Run("missing refs fail generation", func(t *testing.T) {
		_, err := f.service.Create(ctx, CreateAssetRequest{Name: "No refs"})
		require.Error(t, err)
	})
}

func TestService_LifecycleActions(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	a, err := f.service.Create(ctx, CreateAssetRequest{
		AssetTag:   "LIFE-1",
		Name:       "Laptop",
		Status:     "InStock",
		LocationID: &f.location.ID,
	})
	require.NoError(t, err)

	assigned, err := f.service.Assign(ctx, a.ID, AssignRequest{Assignee: "Dana", Department: "IT"}, nil)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusAssigned, assigned.Status)
	assert.Equal(t, "Dana", assigned.AssignedTo)

	repairing, err := f.service.StartRepair(ctx, a.ID, RepairRequest{Vendor: "FixIt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusRepair, repairing.Status)
	assert.Empty(t, repairing.AssignedTo)

	done, err := f.service.CompleteRepair(ctx, a.ID, CompleteRepairRequest{
		Cost: decimal.RequireFromString("49.90"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusInStock, done.Status)

	events, err := f.service.Events(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestService_Move(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	a, err := f.service.Create(ctx, CreateAssetRequest{
		AssetTag:   "MOVE-1",
		Name:       "Dock",
		LocationID: &f.location.ID,
	})
	require.NoError(t, err)

	t.Run("unknown target location", func(t *testing.T) {
		_, err := f.service.Move(ctx, a.ID, uuid.New(), "", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("relocates and records the move", func(t *testing.T) {
		warehouse, err := org.NewLocation("WH", "Warehouse")
		require.NoError(t, err)
		require.NoError(t, f.locations.Save(ctx, warehouse))

		moved, err := f.service.Move(ctx, a.ID, warehouse.ID, "reorg", nil)
		require.NoError(t, err)
		require.NotNil(t, moved.LocationID)
		assert.Equal(t, warehouse.ID, *moved.LocationID)
	})
}

func TestService_List(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.service.Create(ctx, CreateAssetRequest{
			AssetTag: fmt.Sprintf("LIST-%d", i),
			Name:     fmt.Sprintf("Asset %d", i),
			Status:   "InStock",
		})
		require.NoError(t, err)
	}

	resp, err := f.service.List(ctx, ListAssetsRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Page)

	resp, err = f.service.List(ctx, ListAssetsRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}
