package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/events"
)

const connectTimeout = 2 * time.Second

// ErrDaemonUnavailable is returned when watch cannot reach the daemon
var ErrDaemonUnavailable = errors.New("daemon not reachable")

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print board changes as they happen",
		Long: `Follow changes to a board (or all boards) through the daemon, printing
one line per change. Needs 'retro daemon' to be running.

Examples:
  retro watch --board=1
  retro watch --json | jq .
  retro watch --board=1 --count=1   # wait for the next change
`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().Int("board", 0, "Board ID (uses "+cli.EnvBoard+" if set, otherwise all boards)")
	cmd.Flags().Int("count", 0, "Exit after this many events (0 = run until interrupted)")
	cmd.Flags().Bool("json", false, "One JSON object per event")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	formatter := cli.NewFormatter(cmd)

	boardID := 0
	if cmd.Flags().Changed("board") || os.Getenv(cli.EnvBoard) != "" {
		id, err := cli.GetBoardID(cmd)
		if err != nil {
			return cli.UsageError(formatter, err, "")
		}
		boardID = id
	}

	cfg, err := cli.ConfigFromContext(cmd.Context())
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := events.NewClient(cfg.SocketPath, cfg.Events.Debounce())
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	defer client.Close()

	// Sets the board sent with the first subscription; not connected yet
	_ = client.Subscribe(boardID)

	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	err = client.Connect(connectCtx)
	cancelConnect()
	if err != nil {
		daemonErr := events.ClassifyDaemonError(cfg.SocketPath, err)
		_ = formatter.ErrorWithSuggestion("DAEMON_UNAVAILABLE",
			fmt.Sprintf("%v: %s", ErrDaemonUnavailable, daemonErr.Message),
			daemonErr.Hint)
		return cli.NewExitStatus(cli.ExitError, fmt.Errorf("%w: %w", ErrDaemonUnavailable, err))
	}

	eventsCh, err := client.Listen(ctx)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !jsonOutput {
		scope := "all boards"
		if boardID != 0 {
			scope = fmt.Sprintf("board %d", boardID)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), styles.SubtitleStyle.Render("Watching "+scope+" (Ctrl+C to stop)"))
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	seen := 0
	for event := range eventsCh {
		if !event.Matches(boardID) {
			continue
		}
		if jsonOutput {
			if err := enc.Encode(event); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, FormatEvent(event))
		}

		seen++
		if count > 0 && seen >= count {
			return nil
		}
	}
	return nil
}

// FormatEvent renders one event as a line:
//
//	15:04:05  board 1  feedback 3f2a…  changed  (#42)
func FormatEvent(e events.Event) string {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	parts := []string{styles.SubtitleStyle.Render(ts.Local().Format("15:04:05"))}
	if e.BoardID != 0 {
		parts = append(parts, fmt.Sprintf("board %d", e.BoardID))
	} else {
		parts = append(parts, "all boards")
	}
	if e.Entity != "" {
		entity := strings.ReplaceAll(string(e.Entity), "_", " ")
		if e.EntityID != "" {
			entity += " " + shortID(e.EntityID)
		}
		parts = append(parts, styles.LabelStyle.Render(entity))
	}
	parts = append(parts, "changed")
	if e.SequenceID > 0 {
		parts = append(parts, styles.SubtitleStyle.Render(fmt.Sprintf("(#%d)", e.SequenceID)))
	}
	return strings.Join(parts, "  ")
}

// shortID trims UUIDs to their first block
func shortID(id string) string {
	if len(id) > 8 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}
