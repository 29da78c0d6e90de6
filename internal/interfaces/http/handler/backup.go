package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/itam/backend/internal/infrastructure/backup"
	"github.com/itam/backend/internal/interfaces/http/middleware"
)

// BackupHandler handles database snapshot endpoints
type BackupHandler struct {
	BaseHandler
	backups *backup.Manager
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backups *backup.Manager) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// RegisterRoutes registers backup routes; all of them require admin
func (h *BackupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backups := rg.Group("/backups")
	backups.Use(middleware.AdminOnly())
	{
		backups.GET("", h.List)
		backups.POST("", h.Create)
		backups.POST("/:name/restore", h.Restore)
		backups.DELETE("/:name", h.Delete)
	}
}

// List returns the available snapshots, newest first
func (h *BackupHandler) List(c *gin.Context) {
	snapshots, err := h.backups.List()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshots)
}

// Create takes a new snapshot of the live database
func (h *BackupHandler) Create(c *gin.Context) {
	snapshot, err := h.backups.Backup()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, snapshot)
}

// Restore replaces the live database with the named snapshot.
// A safety copy of the current database is written first.
func (h *BackupHandler) Restore(c *gin.Context) {
	if err := h.backups.Restore(c.Param("name")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"restored": c.Param("name")})
}

// Delete removes a snapshot
func (h *BackupHandler) Delete(c *gin.Context) {
	if err := h.backups.Delete(c.Param("name")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
