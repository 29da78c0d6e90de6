package importexport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
	csvio "github.com/itam/backend/internal/infrastructure/csv"
)

// AssetCSVHeaders is the exact column set asset import and export share.
// Export emits these columns in this order; import requires all of them.
var AssetCSVHeaders = []string{
	"asset_tag",
	"name",
	"status",
	"category_code",
	"subcategory_name",
	"location_code",
	"vendor_name",
	"serial_number",
	"purchase_date",
	"warranty_expiry_date",
	"cost",
	"description",
	"notes",
}

// DateLayout is the date format used in CSV files
const DateLayout = "2006-01-02"

// VendorResolver resolves a vendor by name, creating it when missing
type VendorResolver interface {
	FindOrCreateByName(ctx context.Context, name string) (*org.Vendor, error)
}

// ImportResult reports the outcome of a CSV import.
// Imports are best-effort: valid rows commit even when other rows fail,
// and every failed row is reported individually.
type ImportResult struct {
	TotalRows   int              `json:"total_rows"`
	Created     int              `json:"created"`
	Updated     int              `json:"updated"`
	FailedRows  int              `json:"failed_rows"`
	Errors      []csvio.RowError `json:"errors,omitempty"`
	TotalErrors int              `json:"total_errors,omitempty"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// AssetImportService imports assets from CSV files
type AssetImportService struct {
	assets        asset.Repository
	categories    org.CategoryRepository
	subcategories org.SubcategoryRepository
	locations     org.LocationRepository
	vendors       VendorResolver
	maxErrors     int
	logger        *zap.Logger
}

// NewAssetImportService creates a new AssetImportService
func NewAssetImportService(
	assets asset.Repository,
	categories org.CategoryRepository,
	subcategories org.SubcategoryRepository,
	locations org.LocationRepository,
	vendors VendorResolver,
	maxErrors int,
	logger *zap.Logger,
) *AssetImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetImportService{
		assets:        assets,
		categories:    categories,
		subcategories: subcategories,
		locations:     locations,
		vendors:       vendors,
		maxErrors:     maxErrors,
		logger:        logger.Named("asset-import"),
	}
}

// Import parses and applies an asset CSV. Rows are keyed by asset_tag:
// unknown tags create assets, known tags update them in place.
func (s *AssetImportService) Import(ctx context.Context, data []byte, actorID *uuid.UUID) (*ImportResult, error) {
	parser, err := csvio.ParseFromBytes(data)
	if err != nil {
		return nil, mapParseError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, mapParseError(err)
	}
	if missing := parser.MissingHeaders(AssetCSVHeaders); len(missing) > 0 {
		return nil, shared.NewDomainError(csvio.ErrCodeImportInvalidHeader,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError(csvio.ErrCodeImportInvalidFile, err.Error())
	}

	validator := csvio.NewFieldValidator(s.assetRules(), s.maxErrors)
	result := &ImportResult{TotalRows: len(rows)}

	for _, row := range rows {
		if !validator.ValidateRow(row) {
			result.FailedRows++
			continue
		}
		created, err := s.applyRow(ctx, row, validator.Errors(), actorID)
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

	s.logger.Info("Asset import finished",
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.FailedRows),
	)
	return result, nil
}

func (s *AssetImportService) assetRules() []csvio.FieldRule {
	return []csvio.FieldRule{
		csvio.Field("asset_tag").Required().Unique().MaxLength(100).Build(),
		csvio.Field("name").Required().MaxLength(150).Build(),
		csvio.Field("status").Custom(func(value string) error {
			if _, err := asset.ParseStatus(value); err != nil {
				return fmt.Errorf("unrecognized status '%s'", value)
			}
			return nil
		}).Build(),
		csvio.Field("cost").Decimal().MinValue(decimal.Zero).Build(),
		csvio.Field("purchase_date").Date().Build(),
		csvio.Field("warranty_expiry_date").Date().Build(),
	}
}

// applyRow resolves references and upserts one asset. Reference failures
// are recorded against the row and fail only that row.
func (s *AssetImportService) applyRow(ctx context.Context, row *csvio.Row, ec *csvio.ErrorCollection, actorID *uuid.UUID) (created bool, err error) {
	var categoryID, subcategoryID, locationID, vendorID *uuid.UUID

	if code := row.Get("category_code"); code != "" {
		category, err := s.categories.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				ec.AddReferenceError(row.LineNumber, "category_code", code, "category")
			} else {
				ec.AddValidationError(row.LineNumber, "category_code", csvio.ErrCodeImportValidation, err.Error())
			}
			return false, err
		}
		categoryID = &category.ID

		if name := row.Get("subcategory_name"); name != "" {
			sub, err := s.resolveSubcategory(ctx, category.ID, name)
			if err != nil {
				ec.AddValidationError(row.LineNumber, "subcategory_name", csvio.ErrCodeImportValidation, err.Error())
				return false, err
			}
			subcategoryID = &sub.ID
		}
	} else if row.Get("subcategory_name") != "" {
		ec.AddValidationError(row.LineNumber, "subcategory_name", csvio.ErrCodeImportValidation,
			"subcategory_name requires category_code")
		return false, errors.New("subcategory without category")
	}

	if code := row.Get("location_code"); code != "" {
		location, err := s.locations.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				ec.AddReferenceError(row.LineNumber, "location_code", code, "location")
			} else {
				ec.AddValidationError(row.LineNumber, "location_code", csvio.ErrCodeImportValidation, err.Error())
			}
			return false, err
		}
		locationID = &location.ID
	}

	if name := row.Get("vendor_name"); name != "" {
		vendor, err := s.vendors.FindOrCreateByName(ctx, name)
		if err != nil {
			ec.AddValidationError(row.LineNumber, "vendor_name", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		vendorID = &vendor.ID
	}

	tag := row.Get("asset_tag")
	existing, err := s.assets.FindByTag(ctx, tag)
	switch {
	case err == nil:
		if err := s.updateExisting(ctx, existing, row, categoryID, subcategoryID, locationID, vendorID, actorID); err != nil {
			ec.AddValidationError(row.LineNumber, "", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		return false, nil
	case errors.Is(err, shared.ErrNotFound):
		if err := s.createNew(ctx, row, categoryID, subcategoryID, locationID, vendorID, actorID); err != nil {
			ec.AddValidationError(row.LineNumber, "", csvio.ErrCodeImportValidation, err.Error())
			return false, err
		}
		return true, nil
	default:
		ec.AddValidationError(row.LineNumber, "asset_tag", csvio.ErrCodeImportValidation, err.Error())
		return false, err
	}
}

func (s *AssetImportService) resolveSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (*org.Subcategory, error) {
	sub, err := s.subcategories.FindByName(ctx, categoryID, name)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	sub, err = org.NewSubcategory(categoryID, name, "")
	if err != nil {
		return nil, err
	}
	if err := s.subcategories.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *AssetImportService) createNew(ctx context.Context, row *csvio.Row, categoryID, subcategoryID, locationID, vendorID *uuid.UUID, actorID *uuid.UUID) error {
	a, err := asset.NewAsset(row.Get("asset_tag"), row.Get("name"), row.Get("status"))
	if err != nil {
		return err
	}
	if err := s.setRowFields(a, row); err != nil {
		return err
	}
	a.CategoryID = categoryID
	a.SubcategoryID = subcategoryID
	a.LocationID = locationID
	a.VendorID = vendorID
	a.RecordImport("Created by CSV import", "", actorID)
	return s.assets.Save(ctx, a)
}

func (s *AssetImportService) updateExisting(ctx context.Context, a *asset.Asset, row *csvio.Row, categoryID, subcategoryID, locationID, vendorID *uuid.UUID, actorID *uuid.UUID) error {
	from := a.Status
	if name := row.Get("name"); name != "" && name != a.Name {
		if err := a.Rename(name); err != nil {
			return err
		}
	}
	if raw := row.Get("status"); raw != "" {
		status, err := asset.ParseStatus(raw)
		if err != nil {
			return err
		}
		if err := a.SetImportedStatus(status); err != nil {
			return err
		}
	}
	if err := s.setRowFields(a, row); err != nil {
		return err
	}
	a.CategoryID = categoryID
	a.SubcategoryID = subcategoryID
	a.LocationID = locationID
	a.VendorID = vendorID
	a.RecordImport("Updated by CSV import", from, actorID)
	return s.assets.Save(ctx, a)
}

// setRowFields applies the plain value columns shared by create and update
func (s *AssetImportService) setRowFields(a *asset.Asset, row *csvio.Row) error {
	a.SerialNumber = row.Get("serial_number")
	a.Description = row.Get("description")
	a.Notes = row.Get("notes")

	if raw := row.Get("cost"); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return err
		}
		if err := a.SetCost(cost); err != nil {
			return err
		}
	}
	if raw := row.Get("purchase_date"); raw != "" {
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return err
		}
		a.PurchaseDate = &d
	} else {
		a.PurchaseDate = nil
	}
	if raw := row.Get("warranty_expiry_date"); raw != "" {
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return err
		}
		a.WarrantyExpiryDate = &d
	} else {
		a.WarrantyExpiryDate = nil
	}
	return nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, csvio.ErrEmptyFile):
		return shared.NewDomainError(csvio.ErrCodeImportEmptyFile, "CSV file is empty")
	case errors.Is(err, csvio.ErrInvalidEncoding):
		return shared.NewDomainError(csvio.ErrCodeImportInvalidEncoding, "CSV file must be UTF-8 encoded")
	case errors.Is(err, csvio.ErrMissingHeader):
		return shared.NewDomainError(csvio.ErrCodeImportMissingHeader, "CSV file missing header row")
	default:
		return shared.NewDomainError(csvio.ErrCodeImportInvalidFile, err.Error())
	}
}
