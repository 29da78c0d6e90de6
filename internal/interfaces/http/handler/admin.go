package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/itam/backend/internal/application/identity"
	"github.com/itam/backend/internal/domain/settings"
	"github.com/itam/backend/internal/interfaces/http/middleware"
)

// AdminHandler handles admin-only user management and settings endpoints
type AdminHandler struct {
	BaseHandler
	users        *identityapp.UserService
	settingsRepo settings.Repository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(users *identityapp.UserService, settingsRepo settings.Repository) *AdminHandler {
	return &AdminHandler{users: users, settingsRepo: settingsRepo}
}

// RegisterRoutes registers admin routes; all of them require the admin flag
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.GET("/users/:id", h.GetUser)
		admin.POST("/users/:id/toggle-admin", h.ToggleAdmin)
		admin.POST("/users/:id/reset-password", h.ResetPassword)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/settings", h.ListSettings)
		admin.PUT("/settings", h.UpdateSettings)
	}
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=150"`
	IsAdmin     bool   `json:"is_admin"`
}

// ResetPasswordRequest represents a request to reset a user's password
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateSettingsRequest represents a settings update; only known keys are applied
type UpdateSettingsRequest struct {
	AppName        *string `json:"app_name" binding:"omitempty,max=100"`
	SupportEmail   *string `json:"support_email" binding:"omitempty,email,max=150"`
	AssetTagPrefix *string `json:"asset_tag_prefix" binding:"omitempty,max=20"`
}

// ListUsers returns all users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// CreateUser creates a new user
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	user, err := h.users.Create(c.Request.Context(), identityapp.CreateUserRequest{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetUser returns a user by ID
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ToggleAdmin flips a user's admin flag
func (h *AdminHandler) ToggleAdmin(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	user, err := h.users.ToggleAdmin(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword sets a new password for a user
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reset": true})
}

// DeleteUser removes a user
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSettings returns all persisted settings with defaults filled in
func (h *AdminHandler) ListSettings(c *gin.Context) {
	values, err := h.settingsRepo.All(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if _, ok := values[settings.KeyAppName]; !ok {
		values[settings.KeyAppName] = settings.DefaultAppName
	}
	if _, ok := values[settings.KeyAssetTagPrefix]; !ok {
		values[settings.KeyAssetTagPrefix] = settings.DefaultAssetTagPrefix
	}
	h.Success(c, values)
}

// UpdateSettings writes the supplied settings keys
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.AppName != nil {
		if err := h.settingsRepo.Set(ctx, settings.KeyAppName, *req.AppName); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	if req.SupportEmail != nil {
		if err := h.settingsRepo.Set(ctx, settings.KeySupportEmail, *req.SupportEmail); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	if req.AssetTagPrefix != nil {
		normalized := settings.NormalizeTagPrefix(*req.AssetTagPrefix)
		if err := h.settingsRepo.Set(ctx, settings.KeyAssetTagPrefix, normalized); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	values, err := h.settingsRepo.All(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, values)
}
