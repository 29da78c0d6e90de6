package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
)

// GormCategoryRepository implements org.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Category, error) {
	var category org.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByCode finds a category by its code
func (r *GormCategoryRepository) FindByCode(ctx context.Context, code string) (*org.Category, error) {
	var category org.Category
	if err := r.db.WithContext(ctx).
		First(&category, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns all categories ordered by code
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]org.Category, error) {
	var categories []org.Category
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, c *org.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&org.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a category with the given code exists
func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&org.Category{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormSubcategoryRepository implements org.SubcategoryRepository using GORM
type GormSubcategoryRepository struct {
	db *gorm.DB
}

// NewGormSubcategoryRepository creates a new GormSubcategoryRepository
func NewGormSubcategoryRepository(db *gorm.DB) *GormSubcategoryRepository {
	return &GormSubcategoryRepository{db: db}
}

// FindByID finds a subcategory by its ID
func (r *GormSubcategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Subcategory, error) {
	var sub org.Subcategory
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByName finds a subcategory by name within a category
func (r *GormSubcategoryRepository) FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*org.Subcategory, error) {
	var sub org.Subcategory
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND name = ?", categoryID, strings.TrimSpace(name)).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByCategory returns all subcategories of a category
func (r *GormSubcategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]org.Subcategory, error) {
	var subs []org.Subcategory
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindAll returns all subcategories
func (r *GormSubcategoryRepository) FindAll(ctx context.Context) ([]org.Subcategory, error) {
	var subs []org.Subcategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Save creates or updates a subcategory
func (r *GormSubcategoryRepository) Save(ctx context.Context, s *org.Subcategory) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a subcategory
func (r *GormSubcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&org.Subcategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormLocationRepository implements org.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Location, error) {
	var loc org.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByCode finds a location by its code
func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*org.Location, error) {
	var loc org.Location
	if err := r.db.WithContext(ctx).
		First(&loc, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindAll returns all locations ordered by code
func (r *GormLocationRepository) FindAll(ctx context.Context) ([]org.Location, error) {
	var locations []org.Location
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, l *org.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Delete deletes a location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&org.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormVendorRepository implements org.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Vendor, error) {
	var vendor org.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode finds a vendor by its code
func (r *GormVendorRepository) FindByCode(ctx context.Context, code string) (*org.Vendor, error) {
	var vendor org.Vendor
	if err := r.db.WithContext(ctx).
		First(&vendor, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByName finds a vendor by its exact name
func (r *GormVendorRepository) FindByName(ctx context.Context, name string) (*org.Vendor, error) {
	var vendor org.Vendor
	if err := r.db.WithContext(ctx).
		First(&vendor, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAll returns all vendors ordered by code
func (r *GormVendorRepository) FindAll(ctx context.Context) ([]org.Vendor, error) {
	var vendors []org.Vendor
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, v *org.Vendor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// Delete deletes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&org.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxCodeSequence returns the highest numeric suffix among auto-sequenced
// vendor codes (V001, V002, ...); 0 when none exist
func (r *GormVendorRepository) MaxCodeSequence(ctx context.Context) (int, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&org.Vendor{}).
		Where("code LIKE 'V%'").
		Pluck("code", &codes).Error; err != nil {
		return 0, err
	}

	max := 0
	for _, code := range codes {
		seq, err := strconv.Atoi(strings.TrimPrefix(code, "V"))
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

var (
	_ org.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ org.SubcategoryRepository = (*GormSubcategoryRepository)(nil)
	_ org.LocationRepository    = (*GormLocationRepository)(nil)
	_ org.VendorRepository      = (*GormVendorRepository)(nil)
)
