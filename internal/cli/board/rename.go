package board

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// RenameCmd returns the board rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a board",
		Long: `Rename a board.

Examples:
  retro board rename --board=1 --title="Sprint 42 retro"
`,
		RunE: runRename,
	}

	cmd.Flags().String("title", "", "New board title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	title, _ := cmd.Flags().GetString("title")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	if err := cliInstance.App.BoardService.RenameBoard(ctx, boardID, title); err != nil {
		return cli.HandleError(formatter, err)
	}

	board, err := cliInstance.App.BoardService.GetBoard(ctx, boardID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !formatter.Human() {
		return formatter.Success(board)
	}
	formatter.Printf("✓ Board %d renamed to '%s'\n", board.ID, board.Title)
	return nil
}
