package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/retro/internal/config"
	"github.com/thenoetrevino/retro/internal/daemon"
	"github.com/thenoetrevino/retro/internal/logging"
)

// retro-daemon runs the live-update relay without the rest of the CLI, for
// service managers such as systemd or launchd.
func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if closer, err := logging.Init(config.DataDir(), level); err == nil {
		defer closer.Close()
	}

	if err := daemon.Serve(ctx, cfg.SocketPath, daemon.Config{}); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}
