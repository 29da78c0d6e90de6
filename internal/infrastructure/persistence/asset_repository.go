package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/shared"
)

// GormAssetRepository implements asset.Repository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var a asset.Asset
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByTag finds an asset by its asset tag
func (r *GormAssetRepository) FindByTag(ctx context.Context, tag string) (*asset.Asset, error) {
	var a asset.Asset
	if err := r.db.WithContext(ctx).First(&a, "asset_tag = ?", tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll finds assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter asset.Filter) ([]asset.Asset, error) {
	var assets []asset.Asset
	query := r.applyFilter(r.db.WithContext(ctx).Model(&asset.Asset{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("asset_tag ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Count counts assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter asset.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&asset.Asset{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the asset and its pending history entries in one transaction
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		for _, ev := range a.PendingEvents() {
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.ClearPendingEvents()
	return nil
}

// Delete deletes an asset and its movement history
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&asset.Event{}, "asset_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&asset.Asset{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindEvents returns an asset's movement history, newest first
func (r *GormAssetRepository) FindEvents(ctx context.Context, assetID uuid.UUID) ([]asset.Event, error) {
	var events []asset.Event
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ExistsByTag checks whether an asset with the given tag exists
func (r *GormAssetRepository) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&asset.Asset{}).
		Where("asset_tag = ?", tag).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxTagSequence returns the highest sequence number among tags of the
// form <prefix><yearToken>-NNNN; 0 when none exist
func (r *GormAssetRepository) MaxTagSequence(ctx context.Context, prefix, yearToken string) (int, error) {
	pattern := prefix + yearToken + "-%"
	var tags []string
	if err := r.db.WithContext(ctx).
		Model(&asset.Asset{}).
		Where("asset_tag LIKE ?", pattern).
		Pluck("asset_tag", &tags).Error; err != nil {
		return 0, err
	}

	max := 0
	stem := prefix + yearToken + "-"
	for _, tag := range tags {
		suffix := strings.TrimPrefix(tag, stem)
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter asset.Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where(
			"asset_tag LIKE ? OR name LIKE ? OR serial_number LIKE ? OR assigned_to LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

// Ensure GormAssetRepository implements asset.Repository
var _ asset.Repository = (*GormAssetRepository)(nil)
