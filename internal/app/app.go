package app

import (
	"database/sql"
	"log/slog"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	actionitemservice "github.com/thenoetrevino/retro/internal/services/actionitem"
	boardservice "github.com/thenoetrevino/retro/internal/services/board"
	columnservice "github.com/thenoetrevino/retro/internal/services/column"
	feedbackservice "github.com/thenoetrevino/retro/internal/services/feedback"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	eventClient events.EventPublisher

	logger *slog.Logger

	// Service layer (business logic)
	BoardService      boardservice.Service
	ColumnService     columnservice.Service
	FeedbackService   feedbackservice.Service
	ActionItemService actionitemservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := database.NewRepository(db)

	var feedbackOpts []feedbackservice.Option
	if cfg.now != nil {
		feedbackOpts = append(feedbackOpts, feedbackservice.WithClock(cfg.now))
	}

	a := &App{
		repo:              repo,
		eventClient:       cfg.eventClient,
		logger:            cfg.logger,
		BoardService:      boardservice.NewService(repo, cfg.eventClient, cfg.boardDefaults),
		ColumnService:     columnservice.NewService(repo, cfg.eventClient),
		FeedbackService:   feedbackservice.NewService(repo, cfg.eventClient, feedbackOpts...),
		ActionItemService: actionitemservice.NewService(repo, cfg.eventClient),
	}
	a.logger.Debug("app initialized", "events", cfg.eventClient != nil)
	return a
}

// Repo returns the underlying repository for direct database access.
// Only import and export use it; everything else goes through services.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the event client, if any. The database is owned by the caller.
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	return a.eventClient.Close()
}

// Events returns the event publisher, nil when the daemon is not in use
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}
