package importexport

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/org"
	csvio "github.com/itam/backend/internal/infrastructure/csv"
)

// ExportService renders assets and categories as CSV documents that
// round-trip through the matching import services
type ExportService struct {
	assets        asset.Repository
	categories    org.CategoryRepository
	subcategories org.SubcategoryRepository
	locations     org.LocationRepository
	vendors       org.VendorRepository
}

// NewExportService creates a new ExportService
func NewExportService(
	assets asset.Repository,
	categories org.CategoryRepository,
	subcategories org.SubcategoryRepository,
	locations org.LocationRepository,
	vendors org.VendorRepository,
) *ExportService {
	return &ExportService{
		assets:        assets,
		categories:    categories,
		subcategories: subcategories,
		locations:     locations,
		vendors:       vendors,
	}
}

// ExportAssets writes all assets matching the filter as CSV
func (s *ExportService) ExportAssets(ctx context.Context, filter asset.Filter) ([]byte, error) {
	assets, err := s.assets.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	categoryCodes, err := s.categoryCodeIndex(ctx)
	if err != nil {
		return nil, err
	}
	subcategoryNames, err := s.subcategoryNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	locationCodes, err := s.locationCodeIndex(ctx)
	if err != nil {
		return nil, err
	}
	vendorNames, err := s.vendorNameIndex(ctx)
	if err != nil {
		return nil, err
	}

	w, err := csvio.NewWriter(AssetCSVHeaders)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		a := &assets[i]
		record := []string{
			a.AssetTag,
			a.Name,
			string(a.Status),
			lookupRef(categoryCodes, a.CategoryID),
			lookupRef(subcategoryNames, a.SubcategoryID),
			lookupRef(locationCodes, a.LocationID),
			lookupRef(vendorNames, a.VendorID),
			a.SerialNumber,
			formatDate(a.PurchaseDate),
			formatDate(a.WarrantyExpiryDate),
			a.Cost.StringFixed(2),
			a.Description,
			a.Notes,
		}
		if err := w.WriteRecord(record); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}

// ExportCategories writes all categories and their subcategories as CSV.
// A category without subcategories emits one row with empty subcategory
// columns; one with several emits one row per subcategory.
func (s *ExportService) ExportCategories(ctx context.Context) ([]byte, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	w, err := csvio.NewWriter(CategoryCSVHeaders)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		c := &categories[i]
		subs, err := s.subcategories.FindByCategory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if len(subs) == 0 {
			if err := w.WriteRecord([]string{c.Code, c.Name, c.Description, "", ""}); err != nil {
				return nil, err
			}
			continue
		}
		for j := range subs {
			record := []string{c.Code, c.Name, c.Description, subs[j].Name, subs[j].Description}
			if err := w.WriteRecord(record); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes()
}

func (s *ExportService) categoryCodeIndex(ctx context.Context) (map[uuid.UUID]string, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		index[c.ID] = c.Code
	}
	return index, nil
}

func (s *ExportService) subcategoryNameIndex(ctx context.Context) (map[uuid.UUID]string, error) {
	subs, err := s.subcategories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]string, len(subs))
	for _, sub := range subs {
		index[sub.ID] = sub.Name
	}
	return index, nil
}

func (s *ExportService) locationCodeIndex(ctx context.Context) (map[uuid.UUID]string, error) {
	locations, err := s.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]string, len(locations))
	for _, l := range locations {
		index[l.ID] = l.Code
	}
	return index, nil
}

func (s *ExportService) vendorNameIndex(ctx context.Context) (map[uuid.UUID]string, error) {
	vendors, err := s.vendors.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]string, len(vendors))
	for _, v := range vendors {
		index[v.ID] = v.Name
	}
	return index, nil
}

func lookupRef(index map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return index[*id]
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
