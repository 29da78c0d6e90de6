package org

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByCode(ctx context.Context, code string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// SubcategoryRepository defines persistence operations for subcategories
type SubcategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*Subcategory, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]Subcategory, error)
	FindAll(ctx context.Context) ([]Subcategory, error)
	Save(ctx context.Context, s *Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationRepository defines persistence operations for locations
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByCode(ctx context.Context, code string) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)
	Save(ctx context.Context, l *Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VendorRepository defines persistence operations for vendors
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindByCode(ctx context.Context, code string) (*Vendor, error)
	FindByName(ctx context.Context, name string) (*Vendor, error)
	FindAll(ctx context.Context) ([]Vendor, error)
	Save(ctx context.Context, v *Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MaxCodeSequence returns the highest numeric suffix among vendor
	// codes of the form V###; 0 when none exist.
	MaxCodeSequence(ctx context.Context) (int, error)
}
