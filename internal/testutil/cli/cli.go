// Package cli holds helpers for command integration tests. It lives apart
// from testutil so service tests can import testutil without pulling in the
// command packages.
package cli

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/app"
	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/config"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/testutil"
)

// Result is the captured output of one command run
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode returns the process exit code the command would produce
func (r Result) ExitCode() int {
	return cli.ExitCode(r.Err)
}

// SetupCLITest creates an in-memory DB and returns both the DB and App instance.
// The event publisher is nil; event publishing is tested elsewhere.
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	t.Setenv(cli.EnvBoard, "")
	db := testutil.SetupTestDB(t)
	return db, app.New(db)
}

// TestConfig returns defaults with events disabled, so commands never try to
// reach a real daemon.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir() + "/config.yaml")
	require.NoError(t, err)
	cfg.Events.Disabled = true
	return cfg
}

// ExecuteCLICommand runs cmd with args against testApp and captures its output
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), testApp, cmd, args...)
}

// ExecuteCLICommandWithContext runs cmd with a specific parent context
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	return execute(t, ctx, TestConfig(t), testApp, cmd, args...)
}

// ExecuteWithConfig runs cmd with an explicit configuration, for commands
// that talk to a test daemon
func ExecuteWithConfig(t *testing.T, ctx context.Context, cfg *config.Config, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return execute(t, ctx, cfg, testApp, cmd, args...)
}

func execute(t *testing.T, ctx context.Context, cfg *config.Config, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	ctx = cli.WithConfig(ctx, cfg)
	if testApp != nil {
		ctx = cli.WithApp(ctx, testApp)
	}

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// CreateTestBoard creates a board through the service with the given columns
func CreateTestBoard(t *testing.T, testApp *app.App, columns ...string) (*models.Board, []*models.Column) {
	t.Helper()
	return testutil.CreateTestBoard(t, testApp.Repo(), columns...)
}

// CreateTestFeedback inserts a card directly, bypassing phase checks
func CreateTestFeedback(t *testing.T, testApp *app.App, board *models.Board, column *models.Column, id, title string, displayID int) *models.FeedbackItem {
	t.Helper()
	return testutil.CreateTestFeedback(t, testApp.Repo(), board, column, id, title, displayID)
}

// AssertMountsUnderRoot builds a full command tree with newRoot, then runs
// "--help" for group and every command below it. Flags that clash with the
// root's persistent flags make cobra panic while merging them, so each run
// must complete and list the root flags as inherited.
func AssertMountsUnderRoot(t *testing.T, newRoot func() *cobra.Command, group string) {
	t.Helper()

	groupCmd, _, err := newRoot().Find([]string{group})
	require.NoError(t, err)
	require.Equal(t, group, groupCmd.Name())

	var paths [][]string
	var walk func(c *cobra.Command, path []string)
	walk = func(c *cobra.Command, path []string) {
		paths = append(paths, path)
		for _, sub := range c.Commands() {
			if sub.Hidden || sub.Name() == "help" {
				continue
			}
			walk(sub, append(append([]string{}, path...), sub.Name()))
		}
	}
	walk(groupCmd, []string{group})

	for _, path := range paths {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			root := newRoot()
			var stdout, stderr bytes.Buffer
			root.SetOut(&stdout)
			root.SetErr(&stderr)
			root.SetArgs(append(append([]string{}, path...), "--help"))

			var runErr error
			require.NotPanics(t, func() { runErr = root.Execute() })
			require.NoError(t, runErr, stderr.String())
			assert.Contains(t, stdout.String(), "Global Flags:")
			assert.Contains(t, stdout.String(), "--db")
		})
	}
}
