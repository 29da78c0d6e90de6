package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/itam/backend/internal/domain/asset"
)

// CreateAssetRequest carries input for asset creation. AssetTag may be
// empty, in which case a tag is generated from the configured prefix,
// the asset's location and category codes, and the current year.
type CreateAssetRequest struct {
	AssetTag           string
	Name               string
	Status             string
	Description        string
	SerialNumber       string
	Notes              string
	Cost               *decimal.Decimal
	PurchaseDate       *time.Time
	WarrantyExpiryDate *time.Time
	CategoryID         *uuid.UUID
	SubcategoryID      *uuid.UUID
	LocationID         *uuid.UUID
	VendorID           *uuid.UUID
}

// UpdateAssetRequest carries input for asset updates
type UpdateAssetRequest struct {
	Name               string
	Description        string
	SerialNumber       string
	Notes              string
	Cost               *decimal.Decimal
	PurchaseDate       *time.Time
	WarrantyExpiryDate *time.Time
	CategoryID         *uuid.UUID
	SubcategoryID      *uuid.UUID
	VendorID           *uuid.UUID
}

// ListAssetsRequest carries list filtering input
type ListAssetsRequest struct {
	Status     string
	LocationID *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Page       int
	PageSize   int
}

// AssignRequest carries input for assigning an asset
type AssignRequest struct {
	Assignee   string
	Department string
	Email      string
}

// RepairRequest carries input for sending an asset to repair
type RepairRequest struct {
	Vendor    string
	Reference string
	Notes     string
}

// CompleteRepairRequest carries input for closing a repair
type CompleteRepairRequest struct {
	Disposed bool
	Cost     decimal.Decimal
	Notes    string
}

// ListAssetsResponse is a paginated asset listing
type ListAssetsResponse struct {
	Items    []asset.Asset `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// LabelData is the printable label payload for an asset
type LabelData struct {
	AssetTag string `json:"asset_tag"`
	Name     string `json:"name"`
}
