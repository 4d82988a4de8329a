package action

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/cli"
	clitest "github.com/thenoetrevino/retro/internal/testutil/cli"
)

func TestActionLifecycle(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	board, cols := clitest.CreateTestBoard(t, app, "Keep", "Drop")
	clitest.CreateTestFeedback(t, app, board, cols[1], "item-aaaa", "Flaky CI", 1)
	clitest.CreateTestFeedback(t, app, board, cols[1], "item-bbbb", "Slow reviews", 2)
	boardFlag := fmt.Sprintf("--board=%d", board.ID)
	ctx := context.Background()

	res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "add", boardFlag,
		"--item=#1", "--title=Quarantine flaky tests", "--assignee=bob")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "✓ Action item added")
	assert.Contains(t, res.Stdout, "Assigned to: bob")

	res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "add", boardFlag, "--item=2", "--title=Review rota", "--quiet")
	require.NoError(t, res.Err)

	actions, err := app.ActionItemService.ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	first, second := actions[0], actions[1]
	assert.Equal(t, fmt.Sprintf("%d\n", second.ID), res.Stdout)

	t.Run("list the board", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "list", boardFlag)
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "Quarantine flaky tests")
		assert.Contains(t, res.Stdout, "@bob")
		assert.Contains(t, res.Stdout, "#1 Flaky CI")
		assert.Contains(t, res.Stdout, "Review rota")
	})

	t.Run("list one card", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "list", boardFlag, "--item=#2", "--json")
		require.NoError(t, res.Err)
		data := clitest.ParseJSON(t, res.Stdout)["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "Review rota", data[0].(map[string]any)["title"])
	})

	t.Run("done and reopen", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "done", fmt.Sprint(first.ID))
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "done: Quarantine flaky tests")

		res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "list", boardFlag, "--open", "--quiet")
		require.NoError(t, res.Err)
		assert.Equal(t, fmt.Sprintf("%d\n", second.ID), res.Stdout)

		res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "reopen", fmt.Sprint(first.ID), "--json")
		require.NoError(t, res.Err)
		data := clitest.ParseJSON(t, res.Stdout)["data"].(map[string]any)
		assert.Equal(t, false, data["completed"])
	})

	t.Run("delete", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "delete", fmt.Sprint(second.ID), "--force")
		require.NoError(t, res.Err)

		_, err := app.ActionItemService.GetActionItem(ctx, second.ID)
		assert.Error(t, err)
	})

	t.Run("errors", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ActionCmd(), "done", "abc")
		assert.Equal(t, cli.ExitUsage, res.ExitCode())

		res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "done", "999")
		assert.Equal(t, cli.ExitNotFound, res.ExitCode())

		res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "add", boardFlag, "--item=#9", "--title=Nothing")
		assert.Equal(t, cli.ExitNotFound, res.ExitCode())

		res = clitest.ExecuteCLICommand(t, app, ActionCmd(), "add", boardFlag, "--item=#1", "--title=  ")
		assert.Equal(t, cli.ExitValidation, res.ExitCode())
	})
}
