package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/archive/repositories/attempts"
	"puzzlearchive/internal/common"
	"puzzlearchive/internal/logging"
)

// AttemptRecorder creates and finishes attempt records on behalf of the game
// layer. Attempt ids are assigned here, client side, so the same id
// identifies the attempt locally and on catalogd after upload. Every write
// clears the synced flag; the next PushAttempts picks the change up.
type AttemptRecorder struct {
	repo   attempts.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewAttemptRecorder(repo attempts.Repository, logger logging.Logger) *AttemptRecorder {
	return &AttemptRecorder{repo: repo, logger: logger, now: time.Now}
}

// Start records a freshly started attempt and returns it.
func (s *AttemptRecorder) Start(ctx context.Context, puzzleID string) (*models.Attempt, error) {
	a := &models.Attempt{
		ID:        uuid.NewString(),
		PuzzleID:  puzzleID,
		StartedAt: s.now(),
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("error recording attempt: %w", err)
	}

	s.logger.Debug(ctx, "attempt started", "puzzle_id", puzzleID, "attempt_id", a.ID)
	return a, nil
}

// Resume returns the open attempt for the puzzle, starting a fresh one when
// the puzzle has never been played or its latest attempt already finished.
// Finished attempts are never reopened.
func (s *AttemptRecorder) Resume(ctx context.Context, puzzleID string) (*models.Attempt, error) {
	current, err := s.repo.CurrentAttempt(ctx, puzzleID)
	if errors.Is(err, common.ErrNotFound) {
		return s.Start(ctx, puzzleID)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading current attempt: %w", err)
	}

	if current.Completed {
		return s.Start(ctx, puzzleID)
	}
	return current, nil
}

// Complete marks the attempt finished with its final score and metadata.
func (s *AttemptRecorder) Complete(ctx context.Context, attemptID string, score int64, metadata json.RawMessage) error {
	if err := s.repo.Complete(ctx, attemptID, score, s.now(), metadata); err != nil {
		return fmt.Errorf("error completing attempt: %w", err)
	}

	s.logger.Info(ctx, "attempt completed", "attempt_id", attemptID, "score", score)
	return nil
}
