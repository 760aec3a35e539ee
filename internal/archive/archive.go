// Package archive wires the archive client together: local replica, remote
// client, sync engine, content cache and the session controller. The hosting
// shell embeds App and drives the controller from its screen triggers.
package archive

import (
	"context"
	"fmt"

	"puzzlearchive/internal/archive/config"
	"puzzlearchive/internal/archive/db"
	"puzzlearchive/internal/archive/remote"
	"puzzlearchive/internal/archive/services"
	"puzzlearchive/internal/archive/session"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/metrics"

	_ "modernc.org/sqlite"
)

type App struct {
	Config   *config.Config
	Repos    *db.Repositories
	Client   *remote.Client
	Engine   *services.SyncEngine
	Content  *services.ContentService
	Attempts *services.AttemptRecorder
	Session  *session.Controller
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	repos, err := db.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	client := remote.NewClient(cfg.ServerBaseURL)
	recorder := metrics.NewSyncRecorder(cfg.MetricsEnabled)

	engine := services.NewSyncEngine(repos, client, client, logger, recorder)

	content, err := services.NewContentService(client, cfg.ContentCacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing content service: %w", err)
	}

	recorderSvc := services.NewAttemptRecorder(repos.Attempts, logger)
	ctrl := session.NewController(engine, repos.Catalog, repos.Attempts, session.SystemClock(), logger, cfg)

	return &App{
		Config:   cfg,
		Repos:    repos,
		Client:   client,
		Engine:   engine,
		Content:  content,
		Attempts: recorderSvc,
		Session:  ctrl,
	}, nil
}

func (a *App) Close() error {
	return a.Repos.DB.Close()
}
