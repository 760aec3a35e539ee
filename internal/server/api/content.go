package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/server/services"
)

// ContentHandler resolves presigned download URLs for unlocked items.
type ContentHandler struct {
	service *services.ContentService
	logger  logging.Logger
}

func NewContentHandler(service *services.ContentService, logger logging.Logger) *ContentHandler {
	return &ContentHandler{service: service, logger: logger}
}

// URL answers with a short-lived download URL, 403 when the item is locked
// for the caller, 404 when it does not exist.
func (h *ContentHandler) URL(c *gin.Context) {
	puzzleID := c.Param("id")

	url, err := h.service.URL(c.Request.Context(), GetUserID(c), puzzleID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
		case errors.Is(err, common.ErrContentLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": common.ErrContentLocked.Error()})
		default:
			h.logger.Error(c.Request.Context(), err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
