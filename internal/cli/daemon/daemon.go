package daemon

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/daemon"
)

// DaemonCmd returns the daemon command, which runs the live-update relay in
// the foreground
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the live-update daemon in the foreground",
		Long: `Run the daemon that relays board changes between terminals.
Commands work without it; with it running, 'retro watch' sees changes made
from any terminal as they happen.

The socket defaults to ~/.retro/retro.sock (config: socket_path).

Examples:
  retro daemon
  retro daemon --socket=/tmp/retro.sock
`,
		Args: cobra.NoArgs,
		RunE: runDaemon,
	}

	cmd.Flags().Duration("ping-interval", 30*time.Second, "How often idle clients are pinged")

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	pingInterval, _ := cmd.Flags().GetDuration("ping-interval")
	formatter := cli.NewFormatter(cmd)

	cfg, err := cli.ConfigFromContext(cmd.Context())
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	formatter.Printf("retro daemon listening on %s (Ctrl+C to stop)\n", cfg.SocketPath)
	if err := daemon.Serve(ctx, cfg.SocketPath, daemon.Config{PingInterval: pingInterval}); err != nil {
		return cli.HandleError(formatter, err)
	}
	return nil
}
