package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	importexportapp "github.com/itam/backend/internal/application/importexport"
	"github.com/itam/backend/internal/domain/asset"
	csvio "github.com/itam/backend/internal/infrastructure/csv"
	"github.com/itam/backend/internal/interfaces/http/middleware"
)

// ImportExportHandler handles CSV import and export endpoints
type ImportExportHandler struct {
	BaseHandler
	assetImport *importexportapp.AssetImportService
	catImport   *importexportapp.CategoryImportService
	export      *importexportapp.ExportService
	maxFileSize int64
}

// NewImportExportHandler creates a new ImportExportHandler
func NewImportExportHandler(
	assetImport *importexportapp.AssetImportService,
	catImport *importexportapp.CategoryImportService,
	export *importexportapp.ExportService,
	maxFileSize int64,
) *ImportExportHandler {
	return &ImportExportHandler{
		assetImport: assetImport,
		catImport:   catImport,
		export:      export,
		maxFileSize: maxFileSize,
	}
}

// RegisterRoutes registers import/export routes; imports require admin
func (h *ImportExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/import")
	imports.Use(middleware.AdminOnly())
	{
		imports.POST("/assets", h.ImportAssets)
		imports.POST("/categories", h.ImportCategories)
	}

	exports := rg.Group("/export")
	{
		exports.GET("/assets", h.ExportAssets)
		exports.GET("/categories", h.ExportCategories)
	}
}

// ImportAssets imports assets from an uploaded CSV file
func (h *ImportExportHandler) ImportAssets(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	result, err := h.assetImport.Import(c.Request.Context(), data, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportCategories imports categories and subcategories from an uploaded CSV file
func (h *ImportExportHandler) ImportCategories(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	result, err := h.catImport.Import(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportAssets downloads the asset list as CSV
func (h *ImportExportHandler) ExportAssets(c *gin.Context) {
	var query ListAssetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	data, err := h.export.ExportAssets(c.Request.Context(), asset.Filter{
		Status:     query.Status,
		LocationID: parseUUIDPtr(query.LocationID),
		CategoryID: parseUUIDPtr(query.CategoryID),
		Search:     query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendCSV(c, "assets", data)
}

// ExportCategories downloads categories and subcategories as CSV
func (h *ImportExportHandler) ExportCategories(c *gin.Context) {
	data, err := h.export.ExportCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendCSV(c, "categories", data)
}

// readUpload extracts the "file" multipart field, enforcing the size limit
func (h *ImportExportHandler) readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return nil, false
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, csvio.ErrCodeImportFileTooLarge,
			fmt.Sprintf("File exceeds the maximum size of %d bytes", h.maxFileSize))
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return nil, false
	}
	return data, true
}

func (h *ImportExportHandler) sendCSV(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
