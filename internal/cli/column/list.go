package column

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a board's columns in order",
		Long: `List a board's columns in display order.

Examples:
  retro column list --board=1
  retro column list --board=1 --json
`,
		RunE: runList,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	columns, err := cliInstance.App.ColumnService.ListColumns(ctx, boardID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(columns)
	}
	if formatter.Quiet {
		for _, col := range columns {
			formatter.QuietLine(col.ID)
		}
		return nil
	}

	formatter.Printf("Columns of board %d:\n", boardID)
	for i, col := range columns {
		formatter.Printf("  %d. %s %s\n", i+1, styles.ColumnTitle(col),
			styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", col.ID)))
	}
	return nil
}
