package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/config"
	"github.com/storyboard/backend/internal/models"
	"github.com/storyboard/backend/internal/services"
)

type AssetHandler struct {
	assetService *services.AssetService
	cfg          *config.Config
}

func NewAssetHandler(assetService *services.AssetService, cfg *config.Config) *AssetHandler {
	return &AssetHandler{assetService: assetService, cfg: cfg}
}

// ListProjectAssets returns a project's assets, newest first.
func (h *AssetHandler) ListProjectAssets(c *gin.Context) {
	assets, err := h.assetService.ListAssetsByProject(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GetAsset returns a single asset record.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.assetService.GetAsset(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// CreateAsset registers an asset from metadata for a file that already lives
// elsewhere.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req services.CreateAssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetService.CreateAsset(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// UploadAssets stores multipart files and registers one asset per file.
// Files that fail are reported alongside the ones that succeeded.
func (h *AssetHandler) UploadAssets(c *gin.Context) {
	projectID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	uploaded := make([]*models.Asset, 0, len(files))
	var failed []gin.H

	for _, fh := range files {
		if fh.Size > h.cfg.UploadMaxFileSize {
			failed = append(failed, gin.H{
				"name":  fh.Filename,
				"error": fmt.Sprintf("file exceeds the %d byte limit", h.cfg.UploadMaxFileSize),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			failed = append(failed, gin.H{"name": fh.Filename, "error": "failed to read file"})
			continue
		}

		asset, err := h.assetService.UploadAsset(c.Request.Context(), projectID, fh.Filename, f, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				respondError(c, err)
				return
			}
			log.WithError(err).WithField("name", fh.Filename).Warn("upload failed")
			failed = append(failed, gin.H{"name": fh.Filename, "error": "failed to store file"})
			continue
		}
		log.WithFields(log.Fields{"project_id": projectID, "asset_id": asset.ID}).Info("asset uploaded")
		uploaded = append(uploaded, asset)
	}

	status := http.StatusCreated
	if len(uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"assets": uploaded, "failed": failed})
}

// UpdateAsset patches asset metadata.
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req services.UpdateAssetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// DeleteAsset removes an asset; scene and shot links cascade away with it.
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.assetService.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
