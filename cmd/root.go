package cmd

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/action"
	"github.com/thenoetrevino/retro/internal/cli/board"
	"github.com/thenoetrevino/retro/internal/cli/column"
	"github.com/thenoetrevino/retro/internal/cli/daemon"
	"github.com/thenoetrevino/retro/internal/cli/item"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/cli/watch"
	"github.com/thenoetrevino/retro/internal/config"
	"github.com/thenoetrevino/retro/internal/logging"
)

var version = "dev"

// root holds the state shared by the persistent hooks of one command tree
type root struct {
	v         *viper.Viper
	cfgFile   string
	logCloser io.Closer
}

// NewRootCmd builds the retro command tree. Flags and RETRO_* environment
// variables are layered over the config file through viper.
func NewRootCmd() *cobra.Command {
	_, rootCmd := newRoot()
	return rootCmd
}

func newRoot() (*root, *cobra.Command) {
	r := &root{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "retro",
		Short: "retro - A terminal retrospective board",
		Long: `retro runs team retrospectives from the terminal: create a board, collect
feedback cards in columns, group and vote on them, then agree on action items.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&r.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/retro/config.yaml)")
	flags.String("db", "", "path to the SQLite database")
	flags.String("socket", "", "path to the daemon socket")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("no-events", false, "do not connect to the live-update daemon")
	flags.String("theme", "", "color theme preset")

	_ = r.v.BindPFlag(config.KeyDatabase, flags.Lookup("db"))
	_ = r.v.BindPFlag(config.KeySocket, flags.Lookup("socket"))
	_ = r.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = r.v.BindPFlag(config.KeyNoEvents, flags.Lookup("no-events"))
	_ = r.v.BindPFlag(config.KeyTheme, flags.Lookup("theme"))

	r.v.SetEnvPrefix("RETRO")
	r.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	r.v.AutomaticEnv()
	for _, key := range []string{config.KeyMaxVotes, config.KeyTemplate} {
		_ = r.v.BindEnv(key)
	}

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return cli.UsageError(cli.NewFormatter(c), err, "Run '"+c.CommandPath()+" --help' for usage")
	})

	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(item.ItemCmd())
	rootCmd.AddCommand(action.ActionCmd())
	rootCmd.AddCommand(watch.WatchCmd())
	rootCmd.AddCommand(daemon.DaemonCmd())

	return r, rootCmd
}

// setup loads configuration, starts file logging and applies the theme
// before any subcommand runs.
func (r *root) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if r.cfgFile != "" {
		cfg, err = config.LoadFrom(r.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	formatter := cli.NewFormatter(cmd)
	if err != nil {
		if fmtErr := formatter.Error("CONFIG_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return cli.NewExitStatus(cli.ExitError, err)
	}

	cfg.ApplyOverrides(r.v)
	if err := cfg.Validate(); err != nil {
		return cli.ValidationError(formatter, err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	closer, err := logging.Init(config.DataDir(), level)
	if err != nil {
		// Logging is best effort; commands still work without a log file.
		slog.Warn("failed to initialize logging", "error", err)
	} else {
		r.logCloser = closer
	}

	styles.Init(cfg.ColorScheme)
	cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
	return nil
}

func (r *root) close() {
	if r.logCloser != nil {
		_ = r.logCloser.Close()
		r.logCloser = nil
	}
}

// Execute runs the command tree against os.Args. The returned error carries
// the exit code (see cli.ExitCode).
func Execute() error {
	r, rootCmd := newRoot()
	defer r.close()
	return run(rootCmd)
}

// run executes rootCmd and reports errors cobra produced itself (unknown
// commands, wrong argument counts), which no formatter has printed yet.
func run(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var status *cli.ExitStatus
	if errors.As(err, &status) {
		return err
	}
	rootCmd.PrintErrln("Error:", err)
	return cli.NewExitStatus(cli.ExitUsage, err)
}
