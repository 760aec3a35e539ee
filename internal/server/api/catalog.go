package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/services"
)

// CatalogHandler serves the public snapshot and the admin write endpoints.
type CatalogHandler struct {
	service *services.CatalogService
	logger  logging.Logger
}

func NewCatalogHandler(service *services.CatalogService, logger logging.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

// Snapshot returns the full catalog as one {"entries": [...]} document.
// The body is served pre-serialized from the snapshot cache.
func (h *CatalogHandler) Snapshot(c *gin.Context) {
	body, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

type upsertEntryRequest struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	ItemDate   string `json:"item_date"`
	Difficulty string `json:"difficulty"`
	IsSpecial  bool   `json:"is_special"`
	ContentKey string `json:"content_key"`
}

// AdminUpsert creates or replaces one catalog entry.
func (h *CatalogHandler) AdminUpsert(c *gin.Context) {
	var req upsertEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and category are required"})
		return
	}

	entry := &models.CatalogEntry{
		ID:         req.ID,
		Category:   req.Category,
		ItemDate:   req.ItemDate,
		Difficulty: req.Difficulty,
		IsSpecial:  req.IsSpecial,
		ContentKey: req.ContentKey,
	}

	if err := h.service.Upsert(c.Request.Context(), entry); err != nil {
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info(c.Request.Context(), "catalog entry upserted", "id", req.ID)
	c.Status(http.StatusNoContent)
}

// AdminDelete removes one catalog entry. Deleting an absent id is a no-op;
// clients reconcile the disappearance on their next sync.
func (h *CatalogHandler) AdminDelete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info(c.Request.Context(), "catalog entry deleted", "id", id)
	c.Status(http.StatusNoContent)
}
