package board

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// ArchiveCmd returns the board archive subcommand
func ArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive or unarchive a board",
		Long: `Archived boards are read-only and hidden from 'retro board list'.

Examples:
  retro board archive --board=1
  retro board archive --board=1 --undo
`,
		RunE: runArchive,
	}

	cmd.Flags().Bool("undo", false, "Unarchive the board")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	undo, _ := cmd.Flags().GetBool("undo")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	if err := cliInstance.App.BoardService.ArchiveBoard(ctx, boardID, !undo); err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{"board_id": boardID, "archived": !undo})
	}
	if undo {
		formatter.Printf("✓ Board %d unarchived\n", boardID)
	} else {
		formatter.Printf("✓ Board %d archived\n", boardID)
	}
	return nil
}
