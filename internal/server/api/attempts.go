package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/services"
)

// AttemptHandler ingests attempt batches pushed by clients.
type AttemptHandler struct {
	service *services.AttemptService
	logger  logging.Logger
}

func NewAttemptHandler(service *services.AttemptService, logger logging.Logger) *AttemptHandler {
	return &AttemptHandler{service: service, logger: logger}
}

type attemptRecord struct {
	ID          string          `json:"id"`
	PuzzleID    string          `json:"puzzle_id"`
	Completed   bool            `json:"completed"`
	Score       int64           `json:"score"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	Metadata    json.RawMessage `json:"metadata"`
}

type pushAttemptsRequest struct {
	Attempts []attemptRecord `json:"attempts"`
}

// Push stores the batch for the authenticated user. The handler answers 204
// whether or not the rows were new; re-pushed batches land on the same rows.
func (h *AttemptHandler) Push(c *gin.Context) {
	var req pushAttemptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempts := make([]*models.Attempt, 0, len(req.Attempts))
	for _, rec := range req.Attempts {
		if rec.ID == "" || rec.PuzzleID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attempt id and puzzle_id are required"})
			return
		}

		a := &models.Attempt{
			ID:        rec.ID,
			PuzzleID:  rec.PuzzleID,
			Completed: rec.Completed,
			Score:     rec.Score,
			StartedAt: rec.StartedAt,
			Metadata:  rec.Metadata,
		}
		if rec.CompletedAt != nil {
			a.CompletedAt = sql.NullTime{Time: *rec.CompletedAt, Valid: true}
		}
		attempts = append(attempts, a)
	}

	if err := h.service.Ingest(c.Request.Context(), GetUserID(c), attempts); err != nil {
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
