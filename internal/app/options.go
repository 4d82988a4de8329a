package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/retro/internal/events"
	boardservice "github.com/thenoetrevino/retro/internal/services/board"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient   events.EventPublisher
	logger        *slog.Logger
	boardDefaults boardservice.Defaults
	now           func() time.Time
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithBoardDefaults sets the vote budget and template used for new boards
func WithBoardDefaults(maxVotesPerUser int, template string) Option {
	return func(cfg *appConfig) {
		cfg.boardDefaults = boardservice.Defaults{
			MaxVotesPerUser: maxVotesPerUser,
			Template:        template,
		}
	}
}

// WithClock overrides the time source used for timers and timestamps
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.now = now
	}
}
