package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/app"
	"github.com/thenoetrevino/retro/internal/config"
	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
)

// connectTimeout bounds how long a command waits for the daemon
const connectTimeout = 250 * time.Millisecond

type contextKey int

const (
	appKey contextKey = iota
	configKey
)

// WithApp returns a context carrying an existing App. Commands run with such
// a context use it instead of opening the database (tests inject one here).
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// WithConfig returns a context carrying the loaded configuration
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext returns the configuration stored by WithConfig, loading
// it from disk when none is present.
func ConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return config.Load()
}

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config

	db      *sql.DB
	ownsApp bool
}

// GetCLIFromContext returns a CLI for the command's context: the injected App
// when there is one, otherwise a fresh one built from configuration.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		return nil, errors.New("command has no context")
	}
	cfg, err := ConfigFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a, Config: cfg}, nil
	}
	return NewCLI(ctx, cfg)
}

// NewCLI opens the database and, unless disabled, connects to the daemon.
// A daemon that is not running is not an error: commands then work without
// live updates.
func NewCLI(ctx context.Context, cfg *config.Config) (*CLI, error) {
	db, err := database.InitDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var eventClient events.EventPublisher
	if !cfg.Events.Disabled {
		eventClient = connectDaemon(ctx, cfg)
	}

	application := app.New(db,
		app.WithEventPublisher(eventClient),
		app.WithLogger(slog.Default()),
		app.WithBoardDefaults(cfg.Board.MaxVotesPerUser, cfg.Board.Template),
	)

	return &CLI{
		App:     application,
		Config:  cfg,
		db:      db,
		ownsApp: true,
	}, nil
}

func connectDaemon(ctx context.Context, cfg *config.Config) events.EventPublisher {
	client, err := events.NewClient(cfg.SocketPath, cfg.Events.Debounce())
	if err != nil {
		slog.Debug("event client unavailable", "error", err)
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		daemonErr := events.ClassifyDaemonError(cfg.SocketPath, err)
		slog.Debug("daemon not reachable, continuing without live updates",
			"socket", cfg.SocketPath, "message", daemonErr.Message, "hint", daemonErr.Hint)
		_ = client.Close()
		return nil
	}
	return client
}

// Close flushes pending events and closes the database when this CLI opened it
func (c *CLI) Close() error {
	if !c.ownsApp {
		return nil
	}
	appErr := c.App.Close()
	dbErr := c.db.Close()
	return errors.Join(appErr, dbErr)
}

// Setup builds the output formatter and CLI for a command run. Errors are
// already reported through the formatter.
func Setup(cmd *cobra.Command) (*CLI, *OutputFormatter, error) {
	formatter := NewFormatter(cmd)
	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return nil, formatter, NewExitStatus(ExitError, err)
	}
	return cliInstance, formatter, nil
}

// CloseOrLog closes the CLI, logging instead of returning failures. Meant
// for defer.
func (c *CLI) CloseOrLog() {
	if err := c.Close(); err != nil {
		slog.Error("Error closing CLI", "error", err)
	}
}
