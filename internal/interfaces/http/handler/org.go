package handler

import (
	"github.com/gin-gonic/gin"

	orgapp "github.com/itam/backend/internal/application/org"
)

// OrgHandler handles category, location and vendor endpoints
type OrgHandler struct {
	BaseHandler
	categories *orgapp.CategoryService
	locations  *orgapp.LocationService
	vendors    *orgapp.VendorService
}

// NewOrgHandler creates a new OrgHandler
func NewOrgHandler(
	categories *orgapp.CategoryService,
	locations *orgapp.LocationService,
	vendors *orgapp.VendorService,
) *OrgHandler {
	return &OrgHandler{
		categories: categories,
		locations:  locations,
		vendors:    vendors,
	}
}

// RegisterRoutes registers org routes on the given group
func (h *OrgHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
		categories.GET("/:id/subcategories", h.ListSubcategories)
		categories.POST("/:id/subcategories", h.CreateSubcategory)
	}
	rg.DELETE("/subcategories/:id", h.DeleteSubcategory)

	locations := rg.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}

	vendors := rg.Group("/vendors")
	{
		vendors.GET("", h.ListVendors)
		vendors.POST("", h.CreateVendor)
		vendors.GET("/:id", h.GetVendor)
		vendors.PUT("/:id", h.UpdateVendor)
		vendors.DELETE("/:id", h.DeleteVendor)
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateNamedRequest represents a rename/re-describe request shared by
// categories and locations
type UpdateNamedRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CreateSubcategoryRequest represents a request to create a subcategory
type CreateSubcategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// CreateVendorRequest represents a request to create a vendor
type CreateVendorRequest struct {
	Code         string `json:"code" binding:"max=20"`
	Name         string `json:"name" binding:"required,min=1,max=150"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=150"`
	ContactPhone string `json:"contact_phone" binding:"max=50"`
	Website      string `json:"website" binding:"max=200"`
	Address      string `json:"address" binding:"max=500"`
}

// UpdateVendorRequest represents a request to update a vendor
type UpdateVendorRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=150"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=150"`
	ContactPhone string `json:"contact_phone" binding:"max=50"`
	Website      string `json:"website" binding:"max=200"`
	Address      string `json:"address" binding:"max=500"`
}

// ListCategories returns all categories
func (h *OrgHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateCategory creates a new category
func (h *OrgHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	category, err := h.categories.Create(c.Request.Context(), orgapp.CreateCategoryRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// GetCategory returns a category by ID
func (h *OrgHandler) GetCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// UpdateCategory updates a category's name and description
func (h *OrgHandler) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	var req UpdateNamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes a category and its subcategories
func (h *OrgHandler) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSubcategories returns the subcategories of a category
func (h *OrgHandler) ListSubcategories(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	subs, err := h.categories.ListSubcategories(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subs)
}

// CreateSubcategory creates a subcategory under a category
func (h *OrgHandler) CreateSubcategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sub, err := h.categories.CreateSubcategory(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// DeleteSubcategory removes a subcategory
func (h *OrgHandler) DeleteSubcategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid subcategory ID")
		return
	}
	if err := h.categories.DeleteSubcategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListLocations returns all locations
func (h *OrgHandler) ListLocations(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// CreateLocation creates a new location
func (h *OrgHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	location, err := h.locations.Create(c.Request.Context(), orgapp.CreateLocationRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// GetLocation returns a location by ID
func (h *OrgHandler) GetLocation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	location, err := h.locations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// UpdateLocation updates a location's name and description
func (h *OrgHandler) UpdateLocation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	var req UpdateNamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	location, err := h.locations.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// DeleteLocation removes a location
func (h *OrgHandler) DeleteLocation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	if err := h.locations.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListVendors returns all vendors
func (h *OrgHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendors.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendors)
}

// CreateVendor creates a new vendor, generating a code when none is given
func (h *OrgHandler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	vendor, err := h.vendors.Create(c.Request.Context(), orgapp.CreateVendorRequest{
		Code:         req.Code,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
		Address:      req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// GetVendor returns a vendor by ID
func (h *OrgHandler) GetVendor(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}
	vendor, err := h.vendors.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// UpdateVendor updates a vendor's name and contact details
func (h *OrgHandler) UpdateVendor(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}
	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	vendor, err := h.vendors.Update(c.Request.Context(), id, orgapp.UpdateVendorRequest{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
		Address:      req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// DeleteVendor removes a vendor
func (h *OrgHandler) DeleteVendor(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}
	if err := h.vendors.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
