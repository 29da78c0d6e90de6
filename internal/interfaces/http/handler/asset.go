package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	assetapp "github.com/itam/backend/internal/application/asset"
	"github.com/itam/backend/internal/domain/asset"
)

// AssetHandler handles asset-related API endpoints
type AssetHandler struct {
	BaseHandler
	assets *assetapp.Service
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets *assetapp.Service) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// RegisterRoutes registers asset routes on the given group
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assets := rg.Group("/assets")
	{
		assets.GET("", h.List)
		assets.POST("", h.Create)
		assets.GET("/generate-tag", h.GenerateTag)
		assets.GET("/by-tag/:tag", h.GetByTag)
		assets.GET("/:id", h.Get)
		assets.PUT("/:id", h.Update)
		assets.DELETE("/:id", h.Delete)
		assets.GET("/:id/events", h.Events)
		assets.GET("/:id/label", h.Label)
		assets.POST("/:id/assign", h.Assign)
		assets.POST("/:id/unassign", h.Unassign)
		assets.POST("/:id/repair", h.StartRepair)
		assets.POST("/:id/repair/complete", h.CompleteRepair)
		assets.POST("/:id/damaged", h.MarkDamaged)
		assets.POST("/:id/missing", h.MarkMissing)
		assets.POST("/:id/dispose", h.Dispose)
		assets.POST("/:id/move", h.Move)
	}
}

// CreateAssetRequest represents a request to create a new asset
type CreateAssetRequest struct {
	AssetTag           string   `json:"asset_tag" binding:"max=100"`
	Name               string   `json:"name" binding:"required,min=1,max=150"`
	Status             string   `json:"status" binding:"omitempty,assetstatus"`
	Description        string   `json:"description"`
	SerialNumber       string   `json:"serial_number" binding:"max=150"`
	Notes              string   `json:"notes"`
	Cost               *float64 `json:"cost" binding:"omitempty,min=0"`
	PurchaseDate       string   `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	WarrantyExpiryDate string   `json:"warranty_expiry_date" binding:"omitempty,datetime=2006-01-02"`
	CategoryID         string   `json:"category_id" binding:"omitempty,uuid"`
	SubcategoryID      string   `json:"subcategory_id" binding:"omitempty,uuid"`
	LocationID         string   `json:"location_id" binding:"omitempty,uuid"`
	VendorID           string   `json:"vendor_id" binding:"omitempty,uuid"`
}

// UpdateAssetRequest represents a request to update an asset
type UpdateAssetRequest struct {
	Name               string   `json:"name" binding:"omitempty,min=1,max=150"`
	Description        string   `json:"description"`
	SerialNumber       string   `json:"serial_number" binding:"max=150"`
	Notes              string   `json:"notes"`
	Cost               *float64 `json:"cost" binding:"omitempty,min=0"`
	PurchaseDate       string   `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	WarrantyExpiryDate string   `json:"warranty_expiry_date" binding:"omitempty,datetime=2006-01-02"`
	CategoryID         string   `json:"category_id" binding:"omitempty,uuid"`
	SubcategoryID      string   `json:"subcategory_id" binding:"omitempty,uuid"`
	VendorID           string   `json:"vendor_id" binding:"omitempty,uuid"`
}

// ListAssetsQuery represents asset list filter parameters
type ListAssetsQuery struct {
	Status     string `form:"status"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// AssignAssetRequest represents a request to assign an asset
type AssignAssetRequest struct {
	Assignee   string `json:"assignee" binding:"required,min=1,max=150"`
	Department string `json:"department" binding:"max=150"`
	Email      string `json:"email" binding:"omitempty,email,max=150"`
}

// RepairAssetRequest represents a request to send an asset to repair
type RepairAssetRequest struct {
	Vendor    string `json:"vendor" binding:"max=150"`
	Reference string `json:"reference" binding:"max=100"`
	Notes     string `json:"notes"`
}

// CompleteRepairAssetRequest represents a request to close a repair
type CompleteRepairAssetRequest struct {
	Disposed bool    `json:"disposed"`
	Cost     float64 `json:"cost" binding:"min=0"`
	Notes    string  `json:"notes"`
}

// NoteRequest carries an optional note for status transitions
type NoteRequest struct {
	Note string `json:"note"`
}

// MoveAssetRequest represents a request to relocate an asset
type MoveAssetRequest struct {
	LocationID string `json:"location_id" binding:"required,uuid"`
	Reason     string `json:"reason"`
}

// Create creates a new asset
func (h *AssetHandler) Create(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := assetapp.CreateAssetRequest{
		AssetTag:     req.AssetTag,
		Name:         req.Name,
		Status:       req.Status,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
	}
	if req.Cost != nil {
		appReq.Cost = toDecimalPtr(*req.Cost)
	}
	var err error
	if appReq.PurchaseDate, err = parseDatePtr(req.PurchaseDate); err != nil {
		h.BadRequest(c, "Invalid purchase_date")
		return
	}
	if appReq.WarrantyExpiryDate, err = parseDatePtr(req.WarrantyExpiryDate); err != nil {
		h.BadRequest(c, "Invalid warranty_expiry_date")
		return
	}
	appReq.CategoryID = parseUUIDPtr(req.CategoryID)
	appReq.SubcategoryID = parseUUIDPtr(req.SubcategoryID)
	appReq.LocationID = parseUUIDPtr(req.LocationID)
	appReq.VendorID = parseUUIDPtr(req.VendorID)

	a, err := h.assets.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// GenerateTag previews the next asset tag for a location and category
func (h *AssetHandler) GenerateTag(c *gin.Context) {
	locationID := parseUUIDPtr(c.Query("location_id"))
	categoryID := parseUUIDPtr(c.Query("category_id"))

	tag, err := h.assets.GenerateTag(c.Request.Context(), locationID, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"asset_tag": tag})
}

// List returns assets matching the filter with pagination
func (h *AssetHandler) List(c *gin.Context) {
	var query ListAssetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.assets.List(c.Request.Context(), assetapp.ListAssetsRequest{
		Status:     query.Status,
		LocationID: parseUUIDPtr(query.LocationID),
		CategoryID: parseUUIDPtr(query.CategoryID),
		Search:     query.Search,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// Get returns an asset by ID
func (h *AssetHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	a, err := h.assets.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// GetByTag returns an asset by its asset tag
func (h *AssetHandler) GetByTag(c *gin.Context) {
	a, err := h.assets.GetByTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Update updates an asset's editable fields
func (h *AssetHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := assetapp.UpdateAssetRequest{
		Name:         req.Name,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
	}
	if req.Cost != nil {
		appReq.Cost = toDecimalPtr(*req.Cost)
	}
	if appReq.PurchaseDate, err = parseDatePtr(req.PurchaseDate); err != nil {
		h.BadRequest(c, "Invalid purchase_date")
		return
	}
	if appReq.WarrantyExpiryDate, err = parseDatePtr(req.WarrantyExpiryDate); err != nil {
		h.BadRequest(c, "Invalid warranty_expiry_date")
		return
	}
	appReq.CategoryID = parseUUIDPtr(req.CategoryID)
	appReq.SubcategoryID = parseUUIDPtr(req.SubcategoryID)
	appReq.VendorID = parseUUIDPtr(req.VendorID)

	a, err := h.assets.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Delete removes an asset and its history
func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	if err := h.assets.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Events returns an asset's movement history, newest first
func (h *AssetHandler) Events(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	events, err := h.assets.Events(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// Label returns the printable label payload for an asset
func (h *AssetHandler) Label(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	label, err := h.assets.Label(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, label)
}

// Assign assigns an asset to a person
func (h *AssetHandler) Assign(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	var req AssignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	a, err := h.assets.Assign(c.Request.Context(), id, assetapp.AssignRequest{
		Assignee:   req.Assignee,
		Department: req.Department,
		Email:      req.Email,
	}, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Unassign clears an asset's assignment
func (h *AssetHandler) Unassign(c *gin.Context) {
	h.mutation(c, func(id uuid.UUID, actorID *uuid.UUID) (any, error) {
		return h.assets.Unassign(c.Request.Context(), id, actorID)
	})
}

// StartRepair sends an asset to repair
func (h *AssetHandler) StartRepair(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	var req RepairAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	a, err := h.assets.StartRepair(c.Request.Context(), id, assetapp.RepairRequest{
		Vendor:    req.Vendor,
		Reference: req.Reference,
		Notes:     req.Notes,
	}, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// CompleteRepair closes an open repair
func (h *AssetHandler) CompleteRepair(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	var req CompleteRepairAssetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	a, err := h.assets.CompleteRepair(c.Request.Context(), id, assetapp.CompleteRepairRequest{
		Disposed: req.Disposed,
		Cost:     toDecimal(req.Cost),
		Notes:    req.Notes,
	}, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// MarkDamaged flags an asset as damaged
func (h *AssetHandler) MarkDamaged(c *gin.Context) {
	h.noteMutation(c, h.assets.MarkDamaged)
}

// MarkMissing flags an asset as missing
func (h *AssetHandler) MarkMissing(c *gin.Context) {
	h.noteMutation(c, h.assets.MarkMissing)
}

// Dispose retires an asset permanently
func (h *AssetHandler) Dispose(c *gin.Context) {
	h.noteMutation(c, h.assets.Dispose)
}

// Move relocates an asset to another location
func (h *AssetHandler) Move(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	var req MoveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	a, err := h.assets.Move(c.Request.Context(), id, locationID, req.Reason, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

func (h *AssetHandler) noteMutation(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, note string, actorID *uuid.UUID) (*asset.Asset, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	// the note body is optional
	var req NoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	a, err := fn(c.Request.Context(), id, req.Note, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

func (h *AssetHandler) mutation(c *gin.Context, fn func(id uuid.UUID, actorID *uuid.UUID) (any, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID")
		return
	}
	a, err := fn(id, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// parseDatePtr parses an optional 2006-01-02 date string
func parseDatePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseUUIDPtr parses an optional UUID string, returning nil when empty
// or malformed (binding tags reject malformed values before this runs)
func parseUUIDPtr(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
