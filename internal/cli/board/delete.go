package board

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// DeleteCmd returns the board delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a board",
		Long: `Delete a board with all its columns, cards, votes and action items
(requires confirmation unless --force or --quiet).

Examples:
  retro board delete --board=1
  retro board delete --board=1 --force
`,
		RunE: runDelete,
	}

	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	board, err := cliInstance.App.BoardService.GetBoard(ctx, boardID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	ok, err := cli.Confirm(cmd, formatter, fmt.Sprintf("Delete board #%d '%s' and everything on it?", board.ID, board.Title), force)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !ok {
		formatter.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.BoardService.DeleteBoard(ctx, boardID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{"board_id": boardID})
	}
	formatter.Printf("✓ Board %d deleted\n", boardID)
	return nil
}
