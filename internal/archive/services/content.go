package services

import (
	"context"
	"fmt"

	"puzzlearchive/internal/archive/remote"
	"puzzlearchive/internal/filex"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/netx"
)

// ContentService fetches puzzle content payloads. The server only issues a
// download URL for items the user has unlocked, so a locked item surfaces as
// common.ErrContentLocked here. Downloaded payloads are cached on disk and
// served from the cache on later calls, which keeps played puzzles openable
// offline.
type ContentService struct {
	remote   remote.Content
	cacheDir string
	logger   logging.Logger
}

func NewContentService(rc remote.Content, cacheDir string, logger logging.Logger) (*ContentService, error) {
	abs, err := filex.EnsureDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("error preparing content cache: %w", err)
	}
	return &ContentService{remote: rc, cacheDir: abs, logger: logger}, nil
}

// Fetch returns the content payload for a puzzle, from cache when present.
func (s *ContentService) Fetch(ctx context.Context, puzzleID string) ([]byte, error) {
	if data, err := filex.Load(s.cacheDir, puzzleID); err == nil {
		s.logger.Debug(ctx, "content cache hit", "puzzle_id", puzzleID)
		return data, nil
	}

	url, err := s.remote.ContentURL(ctx, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("error requesting content url: %w", err)
	}

	data, err := netx.DownloadPresigned(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error downloading content: %w", err)
	}

	// Cache write failure is not fatal, the payload is already in hand.
	if _, err := filex.Store(s.cacheDir, puzzleID, data); err != nil {
		s.logger.Warn(ctx, "content cache write failed", "puzzle_id", puzzleID, "error", err)
	}

	return data, nil
}

// Cached reports whether the puzzle's payload is already on disk.
func (s *ContentService) Cached(puzzleID string) bool {
	return filex.Exists(s.cacheDir, puzzleID)
}
