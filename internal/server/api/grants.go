package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/server/services"
)

// GrantHandler serves the user's permanent unlock grants.
type GrantHandler struct {
	service *services.GrantService
	logger  logging.Logger
}

func NewGrantHandler(service *services.GrantService, logger logging.Logger) *GrantHandler {
	return &GrantHandler{service: service, logger: logger}
}

type grantRecord struct {
	PuzzleID  string    `json:"puzzle_id"`
	GrantedAt time.Time `json:"granted_at"`
}

// List returns every grant held by the caller.
func (h *GrantHandler) List(c *gin.Context) {
	grants, err := h.service.List(c.Request.Context(), GetUserID(c))
	if err != nil {
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	records := make([]grantRecord, 0, len(grants))
	for _, g := range grants {
		records = append(records, grantRecord{PuzzleID: g.PuzzleID, GrantedAt: g.GrantedAt})
	}

	c.JSON(http.StatusOK, gin.H{"grants": records})
}

type recordGrantRequest struct {
	PuzzleID string `json:"puzzle_id"`
}

// Record stores a grant for the caller. Granting an unknown puzzle is 404;
// repeating a grant is a 204 no-op.
func (h *GrantHandler) Record(c *gin.Context) {
	var req recordGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PuzzleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "puzzle_id is required"})
		return
	}

	if err := h.service.Record(c.Request.Context(), GetUserID(c), req.PuzzleID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
