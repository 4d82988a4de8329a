package column

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/cli"
	clitest "github.com/thenoetrevino/retro/internal/testutil/cli"
)

func TestListColumns(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	board, cols := clitest.CreateTestBoard(t, app, "Keep", "Drop")
	boardFlag := fmt.Sprintf("--board=%d", board.ID)

	t.Run("human output", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "list", boardFlag)
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "1. ")
		assert.Contains(t, res.Stdout, "Keep")
		assert.Contains(t, res.Stdout, fmt.Sprintf("(ID: %d)", cols[1].ID))
	})

	t.Run("quiet lists ids in order", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "list", boardFlag, "--quiet")
		require.NoError(t, res.Err)
		assert.Equal(t, fmt.Sprintf("%d\n%d\n", cols[0].ID, cols[1].ID), res.Stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "list", boardFlag, "--json")
		require.NoError(t, res.Err)
		data := clitest.ParseJSON(t, res.Stdout)["data"].([]any)
		require.Len(t, data, 2)
		assert.Equal(t, "Drop", data[1].(map[string]any)["title"])
	})

	t.Run("unknown board", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "list", "--board=404")
		require.Error(t, res.Err)
		assert.Equal(t, cli.ExitNotFound, res.ExitCode())
	})
}

func TestAddColumn(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	board, cols := clitest.CreateTestBoard(t, app, "Keep", "Drop")
	boardFlag := fmt.Sprintf("--board=%d", board.ID)
	ctx := context.Background()

	t.Run("appends", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "add", boardFlag, "--title=Try")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "✓ Column 'Try' added")

		got, err := app.ColumnService.ListColumns(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Try", got[2].Title)
	})

	t.Run("after a column given by title", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "add", boardFlag,
			"--title=Kudos", "--after=keep", "--color=#8063bf", "--quiet")
		require.NoError(t, res.Err)

		got, err := app.ColumnService.ListColumns(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, cols[0].ID, got[0].ID)
		assert.Equal(t, "Kudos", got[1].Title)
		assert.Equal(t, "#8063bf", got[1].AccentColor)
		assert.Equal(t, fmt.Sprintf("%d\n", got[1].ID), res.Stdout)
	})

	t.Run("unknown after column", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "add", boardFlag, "--title=X", "--after=Nowhere")
		require.Error(t, res.Err)
		assert.Equal(t, cli.ExitNotFound, res.ExitCode())
		assert.Contains(t, res.Stderr, "available: Keep")
	})

	t.Run("bad color", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "add", boardFlag, "--title=X", "--color=red")
		require.Error(t, res.Err)
		assert.Equal(t, cli.ExitValidation, res.ExitCode())
	})
}

func TestRenameColumn(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	board, cols := clitest.CreateTestBoard(t, app, "Keep", "Drop")

	res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "rename", fmt.Sprint(cols[1].ID),
		fmt.Sprintf("--board=%d", board.ID), "--title=Stop doing")

	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "'Drop' renamed to 'Stop doing'")
	got, err := app.ColumnService.GetColumn(context.Background(), cols[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Stop doing", got.Title)
}

func TestDeleteColumn(t *testing.T) {
	_, app := clitest.SetupCLITest(t)
	board, cols := clitest.CreateTestBoard(t, app, "Keep", "Drop")
	boardFlag := fmt.Sprintf("--board=%d", board.ID)
	clitest.CreateTestFeedback(t, app, board, cols[0], "item-1", "Pairing", 1)

	t.Run("column with feedback", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "delete", "Keep", boardFlag, "--force")
		require.Error(t, res.Err)
		assert.Equal(t, cli.ExitValidation, res.ExitCode())
	})

	t.Run("empty column", func(t *testing.T) {
		res := clitest.ExecuteCLICommand(t, app, ColumnCmd(), "delete", "Drop", boardFlag, "--force")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "✓ Column 'Drop' deleted")

		got, err := app.ColumnService.ListColumns(context.Background(), board.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
