package org

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
	"github.com/itam/backend/internal/infrastructure/persistence"
)

func setupOrgDB(t *testing.T) *gorm.DB {
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
	))
	return db
}

func TestVendorService_CodeSequencing(t *testing.T) {
	db := setupOrgDB(t)
	service := NewVendorService(persistence.NewGormVendorRepository(db))
	ctx := context.Background()

	first, err := service.Create(ctx, CreateVendorRequest{Name: "Apple Inc"})
	require.NoError(t, err)
	assert.Equal(t, "V001", first.Code)

	second, err := service.Create(ctx, CreateVendorRequest{Name: "Lenovo"})
	require.NoError(t, err)
	assert.Equal(t, "V002", second.Code)

	// explicit codes do not disturb the sequence origin
	_, err = service.Create(ctx, CreateVendorRequest{Code: "V010", Name: "Dell"})
	require.NoError(t, err)

	fourth, err := service.Create(ctx, CreateVendorRequest{Name: "HP"})
	require.NoError(t, err)
	assert.Equal(t, "V011", fourth.Code)
}

func TestVendorService_FindOrCreateByName(t *testing.T) {
	db := setupOrgDB(t)
	service := NewVendorService(persistence.NewGormVendorRepository(db))
	ctx := context.Background()

	v, err := service.FindOrCreateByName(ctx, "Apple Inc")
	require.NoError(t, err)
	assert.Equal(t, "V001", v.Code)

	again, err := service.FindOrCreateByName(ctx, "Apple Inc")
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)

	vendors, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestVendorService_DuplicateName(t *testing.T) {
	db := setupOrgDB(t)
	service := NewVendorService(persistence.NewGormVendorRepository(db))
	ctx := context.Background()

	_, err := service.Create(ctx, CreateVendorRequest{Name: "Apple Inc"})
	require.NoError(t, err)

	_, err = service.Create(ctx, CreateVendorRequest{Name: "Apple Inc"})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
}

func TestCategoryService(t *testing.T) {
	db := setupOrgDB(t)
	service := NewCategoryService(
		persistence.NewGormCategoryRepository(db),
		persistence.NewGormSubcategoryRepository(db),
	)
	ctx := context.Background()

	category, err := service.Create(ctx, CreateCategoryRequest{Code: "COMP", Name: "Computers"})
	require.NoError(t, err)

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := service.Create(ctx, CreateCategoryRequest{Code: "comp", Name: "Other"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)
	})

	t.Run("subcategories", func(t *testing.T) {
		sub, err := service.CreateSubcategory(ctx, category.ID, "Laptops", "")
		require.NoError(t, err)

		_, err = service.CreateSubcategory(ctx, category.ID, "Laptops", "")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)

		subs, err := service.ListSubcategories(ctx, category.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, sub.ID, subs[0].ID)
	})

	t.Run("delete cascades subcategories", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, category.ID))
		_, err := service.Get(ctx, category.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLocationService(t *testing.T) {
	db := setupOrgDB(t)
	service := NewLocationService(persistence.NewGormLocationRepository(db))
	ctx := context.Background()

	l, err := service.Create(ctx, CreateLocationRequest{Code: "HQ", Name: "Headquarters"})
	require.NoError(t, err)
	assert.Equal(t, "HQ", l.Code)

	_, err = service.Create(ctx, CreateLocationRequest{Code: "HQ", Name: "Duplicate"})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
}
