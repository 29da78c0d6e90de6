package org

import (
	"context"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
)

// CategoryService handles category and subcategory operations
type CategoryService struct {
	categories    org.CategoryRepository
	subcategories org.SubcategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories org.CategoryRepository, subcategories org.SubcategoryRepository) *CategoryService {
	return &CategoryService{categories: categories, subcategories: subcategories}
}

// CreateCategoryRequest carries input for category creation
type CreateCategoryRequest struct {
	Code        string
	Name        string
	Description string
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*org.Category, error) {
	exists, err := s.categories.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}

	c, err := org.NewCategory(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	c.Description = req.Description

	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*org.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// List returns all categories
func (s *CategoryService) List(ctx context.Context) ([]org.Category, error) {
	return s.categories.FindAll(ctx)
}

// Update updates a category's name and description
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, name, description string) (*org.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(name, description); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category and its subcategories
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	subs, err := s.subcategories.FindByCategory(ctx, id)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := s.subcategories.Delete(ctx, sub.ID); err != nil {
			return err
		}
	}
	return s.categories.Delete(ctx, id)
}

// CreateSubcategory creates a subcategory under a category
func (s *CategoryService) CreateSubcategory(ctx context.Context, categoryID uuid.UUID, name, description string) (*org.Subcategory, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	if _, err := s.subcategories.FindByName(ctx, categoryID, name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Subcategory with this name already exists in the category")
	}

	sub, err := org.NewSubcategory(categoryID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.subcategories.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubcategories returns the subcategories of a category
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]org.Subcategory, error) {
	return s.subcategories.FindByCategory(ctx, categoryID)
}

// DeleteSubcategory removes a subcategory
func (s *CategoryService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return s.subcategories.Delete(ctx, id)
}
