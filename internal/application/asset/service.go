package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/settings"
	"github.com/itam/backend/internal/domain/shared"
)

// Service handles asset business operations
type Service struct {
	assets       asset.Repository
	categories   org.CategoryRepository
	locations    org.LocationRepository
	settingsRepo settings.Repository
}

// NewService creates a new asset Service
func NewService(
	assets asset.Repository,
	categories org.CategoryRepository,
	locations org.LocationRepository,
	settingsRepo settings.Repository,
) *Service {
	return &Service{
		assets:       assets,
		categories:   categories,
		locations:    locations,
		settingsRepo: settingsRepo,
	}
}

// Create creates a new asset, generating a tag when none is supplied
func (s *Service) Create(ctx context.Context, req CreateAssetRequest) (*asset.Asset, error) {
	tag := req.AssetTag
	if tag == "" {
		generated, err := s.GenerateTag(ctx, req.LocationID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		tag = generated
	} else {
		exists, err := s.assets.ExistsByTag(ctx, tag)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Asset with this tag already exists")
		}
	}

	a, err := asset.NewAsset(tag, req.Name, req.Status)
	if err != nil {
		return nil, err
	}

	a.Description = req.Description
	a.SerialNumber = req.SerialNumber
	a.Notes = req.Notes
	a.PurchaseDate = req.PurchaseDate
	a.WarrantyExpiryDate = req.WarrantyExpiryDate
	a.CategoryID = req.CategoryID
	a.SubcategoryID = req.SubcategoryID
	a.LocationID = req.LocationID
	a.VendorID = req.VendorID
	if req.Cost != nil {
		if err := a.SetCost(*req.Cost); err != nil {
			return nil, err
		}
	}

	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GenerateTag builds the next asset tag for a location and category.
// Format: <prefix><location-code>-<category-code>-<year>-<sequence>,
// e.g. ESS-HQ-COMP-2026-0001. The sequence increments independently per
// location, category, and year.
func (s *Service) GenerateTag(ctx context.Context, locationID, categoryID *uuid.UUID) (string, error) {
	if locationID == nil || categoryID == nil {
		return "", shared.NewDomainError("INVALID_INPUT",
			"Tag generation requires a location and a category")
	}

	location, err := s.locations.FindByID(ctx, *locationID)
	if err != nil {
		return "", err
	}
	category, err := s.categories.FindByID(ctx, *categoryID)
	if err != nil {
		return "", err
	}

	rawPrefix, err := s.settingsRepo.GetOrDefault(ctx, settings.KeyAssetTagPrefix, settings.DefaultAssetTagPrefix)
	if err != nil {
		return "", err
	}
	prefix := settings.NormalizeTagPrefix(rawPrefix)

	year := fmt.Sprintf("%d", time.Now().Year())
	stem := fmt.Sprintf("%s%s-%s-", prefix, location.Code, category.Code)

	seq, err := s.assets.MaxTagSequence(ctx, stem, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s-%04d", stem, year, seq+1), nil
}

// Get returns an asset by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	return s.assets.FindByID(ctx, id)
}

// GetByTag returns an asset by its asset tag
func (s *Service) GetByTag(ctx context.Context, tag string) (*asset.Asset, error) {
	return s.assets.FindByTag(ctx, tag)
}

// List returns assets matching the filter with pagination
func (s *Service) List(ctx context.Context, req ListAssetsRequest) (*ListAssetsResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 200 {
		req.PageSize = 50
	}

	filter := asset.Filter{
		Status:     req.Status,
		LocationID: req.LocationID,
		CategoryID: req.CategoryID,
		Search:     req.Search,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	items, err := s.assets.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.assets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListAssetsResponse{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Update updates an asset's editable fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateAssetRequest) (*asset.Asset, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != a.Name {
		if err := a.Rename(req.Name); err != nil {
			return nil, err
		}
	}
	a.Description = req.Description
	a.SerialNumber = req.SerialNumber
	a.Notes = req.Notes
	a.PurchaseDate = req.PurchaseDate
	a.WarrantyExpiryDate = req.WarrantyExpiryDate
	a.CategoryID = req.CategoryID
	a.SubcategoryID = req.SubcategoryID
	a.VendorID = req.VendorID
	if req.Cost != nil {
		if err := a.SetCost(*req.Cost); err != nil {
			return nil, err
		}
	}

	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an asset and its history
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.assets.Delete(ctx, id)
}

// Assign assigns an asset to a person
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req AssignRequest, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.Assign(req.Assignee, req.Department, req.Email, actorID)
	})
}

// Unassign clears an asset's assignment
func (s *Service) Unassign(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.Unassign(actorID)
	})
}

// StartRepair sends an asset to repair
func (s *Service) StartRepair(ctx context.Context, id uuid.UUID, req RepairRequest, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.StartRepair(req.Vendor, req.Reference, req.Notes, actorID)
	})
}

// CompleteRepair closes an open repair
func (s *Service) CompleteRepair(ctx context.Context, id uuid.UUID, req CompleteRepairRequest, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.CompleteRepair(req.Disposed, req.Cost, req.Notes, actorID)
	})
}

// MarkDamaged flags an asset as damaged
func (s *Service) MarkDamaged(ctx context.Context, id uuid.UUID, note string, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.MarkDamaged(note, actorID)
	})
}

// MarkMissing flags an asset as missing
func (s *Service) MarkMissing(ctx context.Context, id uuid.UUID, note string, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.MarkMissing(note, actorID)
	})
}

// Dispose retires an asset permanently
func (s *Service) Dispose(ctx context.Context, id uuid.UUID, note string, actorID *uuid.UUID) (*asset.Asset, error) {
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.Dispose(note, actorID)
	})
}

// Move relocates an asset to another location
func (s *Service) Move(ctx context.Context, id, toLocationID uuid.UUID, reason string, actorID *uuid.UUID) (*asset.Asset, error) {
	if _, err := s.locations.FindByID(ctx, toLocationID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(a *asset.Asset) error {
		return a.Move(toLocationID, reason, actorID)
	})
}

// Events returns an asset's movement history, newest first
func (s *Service) Events(ctx context.Context, id uuid.UUID) ([]asset.Event, error) {
	if _, err := s.assets.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.assets.FindEvents(ctx, id)
}

// Label returns the printable label payload for an asset
func (s *Service) Label(ctx context.Context, id uuid.UUID) (*LabelData, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LabelData{AssetTag: a.AssetTag, Name: a.Name}, nil
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(a *asset.Asset) error) (*asset.Asset, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
