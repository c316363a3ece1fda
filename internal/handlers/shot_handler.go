package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyboard/backend/internal/services"
)

type ShotHandler struct {
	shotService *services.ShotService
}

func NewShotHandler(shotService *services.ShotService) *ShotHandler {
	return &ShotHandler{shotService: shotService}
}

// ListSceneShots returns a scene's shots in ordinal order.
func (h *ShotHandler) ListSceneShots(c *gin.Context) {
	shots, err := h.shotService.ListShotsByScene(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shots)
}

// BulkSaveShots reconciles a scene's shots against the submitted list: shots
// absent from it are deleted, unknown ones inserted, the rest updated.
func (h *ShotHandler) BulkSaveShots(c *gin.Context) {
	var req []services.ShotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be an array of shots"})
		return
	}

	shots, err := h.shotService.ReconcileSceneShots(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shots)
}

// GetShot returns a single shot with its linked assets.
func (h *ShotHandler) GetShot(c *gin.Context) {
	shot, err := h.shotService.GetShot(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

// UpdateShot patches a shot's descriptive fields.
func (h *ShotHandler) UpdateShot(c *gin.Context) {
	var req services.ShotPropsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shot, err := h.shotService.UpdateShotProperties(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

// ReplaceShotAssets swaps the shot's asset links for the given set, keeping
// the submitted order.
func (h *ShotHandler) ReplaceShotAssets(c *gin.Context) {
	var req struct {
		AssetIDs []string `json:"assetIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shot, err := h.shotService.UpdateShotAssets(c.Param("id"), req.AssetIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shot)
}

// DeleteShot removes a shot and its asset links.
func (h *ShotHandler) DeleteShot(c *gin.Context) {
	if err := h.shotService.DeleteShot(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shot deleted successfully"})
}
