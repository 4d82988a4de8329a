package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/cli"
	clitest "github.com/thenoetrevino/retro/internal/testutil/cli"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(cli.EnvBoard, "")
	t.Setenv("RETRO_USER", "ana")
	return dir
}

func runRoot(t *testing.T, args ...string) runResult {
	t.Helper()
	r, rootCmd := newRoot()
	t.Cleanup(r.close)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := run(rootCmd)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCommandTree(t *testing.T) {
	rootCmd := NewRootCmd()

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"board", "column", "item", "action", "watch", "daemon"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "db", "socket", "log-level", "no-events", "theme"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootSubcommandsMount(t *testing.T) {
	for _, group := range []string{"board", "column", "item", "action", "watch", "daemon"} {
		t.Run(group, func(t *testing.T) {
			clitest.AssertMountsUnderRoot(t, NewRootCmd, group)
		})
	}
}

func TestRootEndToEnd(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "retro.db")

	res := runRoot(t, "board", "create", "--title", "Sprint 42", "--quiet", "--db", db, "--no-events")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "1", strings.TrimSpace(res.stdout))

	res = runRoot(t, "item", "add", "Fast CI", "-c", "What went well", "--board", "1", "--db", db, "--no-events")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "#1")

	res = runRoot(t, "item", "list", "-c", "What went well", "--board", "1", "--db", db, "--no-events")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Fast CI")

	res = runRoot(t, "board", "list", "--db", db, "--no-events")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Sprint 42")
	assert.FileExists(t, filepath.Join(dir, ".retro", "logs", "retro.log"))
}

func TestRootEnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "env.db")
	t.Setenv("RETRO_DB", db)
	t.Setenv("RETRO_NO_EVENTS", "true")

	res := runRoot(t, "board", "list")
	require.NoError(t, res.err, res.stderr)
	assert.FileExists(t, db)
}

func TestRootInvalidConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("RETRO_MAX_VOTES", "0")

	res := runRoot(t, "board", "list", "--db", filepath.Join(dir, "retro.db"), "--no-events")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(res.err))
	assert.Contains(t, res.stderr, "max_votes_per_user")
}

func TestRootInvalidLogLevel(t *testing.T) {
	isolate(t)

	res := runRoot(t, "board", "list", "--log-level", "loud", "--no-events")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(res.err))
}

func TestRootUsageErrors(t *testing.T) {
	isolate(t)

	t.Run("unknown command", func(t *testing.T) {
		res := runRoot(t, "nope")
		require.Error(t, res.err)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
		assert.Contains(t, res.stderr, "Error:")
	})

	t.Run("unknown flag", func(t *testing.T) {
		res := runRoot(t, "board", "list", "--bogus")
		require.Error(t, res.err)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
		assert.Contains(t, res.stderr, "--help")
	})
}
