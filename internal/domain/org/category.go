package org

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itam/backend/internal/domain/shared"
)

// Category groups assets by kind (e.g. COMP for computers).
// Codes are short uppercase tokens used in asset tags and CSV files.
type Category struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(code, name string) (*Category, error) {
	if err := validateCode(code, "Category"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Category"); err != nil {
		return nil, err
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Active:            true,
	}, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	if err := validateName(name, "Category"); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Subcategory refines a category; its name is unique within the parent.
type Subcategory struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subcategory_name_category,priority:1"`
	Description string    `gorm:"type:text"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subcategory_name_category,priority:2"`
}

// TableName returns the table name for GORM
func (Subcategory) TableName() string {
	return "subcategories"
}

// NewSubcategory creates a subcategory under the given category
func NewSubcategory(categoryID uuid.UUID, name, description string) (*Subcategory, error) {
	if err := validateName(name, "Subcategory"); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Subcategory requires a parent category")
	}
	return &Subcategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		CategoryID:        categoryID,
	}, nil
}

// Update updates the subcategory's name and description
func (s *Subcategory) Update(name, description string) error {
	if err := validateName(name, "Subcategory"); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func validateCode(code, entity string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", entity+" code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", entity+" code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", entity+" code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name, entity string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", entity+" name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", entity+" name cannot exceed 100 characters")
	}
	return nil
}
