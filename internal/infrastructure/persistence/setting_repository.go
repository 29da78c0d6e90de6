package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itam/backend/internal/domain/settings"
	"github.com/itam/backend/internal/domain/shared"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns the value for a key
func (r *GormSettingRepository) Get(ctx context.Context, key string) (string, error) {
	var s settings.Setting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return s.Value, nil
}

// GetOrDefault returns the value for a key, or fallback when unset
func (r *GormSettingRepository) GetOrDefault(ctx context.Context, key, fallback string) (string, error) {
	value, err := r.Get(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes a key/value pair, overwriting any existing value
func (r *GormSettingRepository) Set(ctx context.Context, key, value string) error {
	s := settings.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&s).Error
}

// All returns every stored setting as a map
func (r *GormSettingRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []settings.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

var _ settings.Repository = (*GormSettingRepository)(nil)
