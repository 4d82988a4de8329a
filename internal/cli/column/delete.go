package column

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <column>",
		Short: "Delete an empty column",
		Long: `Delete a column, given by ID or title (requires confirmation unless --force or --quiet).
Only empty columns can be deleted; move or delete their cards first.
A board always keeps at least one column.

Examples:
  retro column delete "Kudos" --board=1
  retro column delete 3 --board=1 --force
`,
		Args: cobra.ExactArgs(1),
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

	col, err := cli.ResolveColumn(ctx, cliInstance, boardID, args[0])
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	ok, err := cli.Confirm(cmd, formatter, fmt.Sprintf("Delete column '%s'?", col.Title), force)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !ok {
		formatter.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.ColumnService.DeleteColumn(ctx, col.ID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{"column_id": col.ID, "board_id": boardID})
	}
	formatter.QuietLine(col.ID)
	formatter.Printf("✓ Column '%s' deleted\n", col.Title)
	return nil
}
