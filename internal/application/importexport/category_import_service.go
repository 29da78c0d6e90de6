package importexport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
	csvio "github.com/itam/backend/internal/infrastructure/csv"
)

// CategoryCSVHeaders is the exact column set category import and export share
var CategoryCSVHeaders = []string{
	"category_code",
	"category_name",
	"category_description",
	"subcategory_name",
	"subcategory_description",
}

// CategoryImportService imports categories and subcategories from CSV files
type CategoryImportService struct {
	categories    org.CategoryRepository
	subcategories org.SubcategoryRepository
	maxErrors     int
	logger        *zap.Logger
}

// NewCategoryImportService creates a new CategoryImportService
func NewCategoryImportService(
	categories org.CategoryRepository,
	subcategories org.SubcategoryRepository,
	maxErrors int,
	logger *zap.Logger,
) *CategoryImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryImportService{
		categories:    categories,
		subcategories: subcategories,
		maxErrors:     maxErrors,
		logger:        logger.Named("category-import"),
	}
}

// Import parses and applies a category CSV. Categories are keyed by code
// and upserted; a non-empty subcategory_name upserts a subcategory under
// the row's category. Several rows may repeat a category code to attach
// multiple subcategories.
func (s *CategoryImportService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	parser, err := csvio.ParseFromBytes(data)
	if err != nil {
		return nil, mapParseError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, mapParseError(err)
	}
	if missing := parser.MissingHeaders(CategoryCSVHeaders); len(missing) > 0 {
		return nil, shared.NewDomainError(csvio.ErrCodeImportInvalidHeader,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError(csvio.ErrCodeImportInvalidFile, err.Error())
	}

	rules := []csvio.FieldRule{
		csvio.Field("category_code").Required().MaxLength(50).Build(),
		csvio.Field("category_name").Required().MaxLength(100).Build(),
		csvio.Field("subcategory_name").MaxLength(100).Build(),
	}
	validator := csvio.NewFieldValidator(rules, s.maxErrors)
	result := &ImportResult{TotalRows: len(rows)}

	for _, row := range rows {
		if !validator.ValidateRow(row) {
			result.FailedRows++
			continue
		}
		created, err := s.applyRow(ctx, row, validator.Errors())
		if err != nil {
			result.FailedRows++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	ec := validator.Errors()
	result.Errors = ec.Errors()
	result.TotalErrors = ec.TotalCount()
	result.Truncated = ec.IsTruncated()

	s.logger.Info("Category import finished",
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.FailedRows),
	)
	return result, nil
}

func (s *CategoryImportService) applyRow(ctx context.Context, row *csvio.Row, ec *csvio.ErrorCollection) (created bool, err error) {
	code := row.Get("category_code")
	name := row.Get("category_name")
	description := row.Get("category_description")

	category, err := s.categories.FindByCode(ctx, code)
	switch {
	case err == nil:
		if err := category.Update(name, description); err != nil {
			ec.AddValidationError(row.LineNumber, "category_name", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		if err := s.categories.Save(ctx, category); err != nil {
			ec.AddValidationError(row.LineNumber, "", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
	case errors.Is(err, shared.ErrNotFound):
		category, err = org.NewCategory(code, name)
		if err != nil {
			ec.AddValidationError(row.LineNumber, "category_code", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		category.Description = description
		if err := s.categories.Save(ctx, category); err != nil {
			ec.AddValidationError(row.LineNumber, "", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		created = true
	default:
		ec.AddValidationError(row.LineNumber, "category_code", csvio.ErrCodeImportValidation, err.Error())
		return false, err
	}

	if subName := row.Get("subcategory_name"); subName != "" {
		if err := s.upsertSubcategory(ctx, category.ID, subName, row.Get("subcategory_description")); err != nil {
			ec.AddValidationError(row.LineNumber, "subcategory_name", csvio.ErrCodeImportValidation, err.Error())
			return created, err
		}
	}
	return created, nil
}

func (s *CategoryImportService) upsertSubcategory(ctx context.Context, categoryID uuid.UUID, name, description string) error {
	sub, err := s.subcategories.FindByName(ctx, categoryID, name)
	if err == nil {
		return s.updateSubcategory(ctx, sub, name, description)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	sub, err = org.NewSubcategory(categoryID, name, description)
	if err != nil {
		return err
	}
	return s.subcategories.Save(ctx, sub)
}

func (s *CategoryImportService) updateSubcategory(ctx context.Context, sub *org.Subcategory, name, description string) error {
	if err := sub.Update(name, description); err != nil {
		return err
	}
	return s.subcategories.Save(ctx, sub)
}
