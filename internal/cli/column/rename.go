package column

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// RenameCmd returns the column rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <column>",
		Short: "Rename a column",
		Long: `Rename a column, given by ID or current title.

Examples:
  retro column rename 3 --board=1 --title="Shout-outs"
  retro column rename "Kudos" --board=1 --title="Shout-outs"
`,
		Args: cobra.ExactArgs(1),
		RunE: runRename,
	}

	cmd.Flags().String("title", "", "New column title (required)")
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

	col, err := cli.ResolveColumn(ctx, cliInstance, boardID, args[0])
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	oldTitle := col.Title

	if err := cliInstance.App.ColumnService.RenameColumn(ctx, col.ID, title); err != nil {
		return cli.HandleError(formatter, err)
	}

	updated, err := cliInstance.App.ColumnService.GetColumn(ctx, col.ID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !formatter.Human() {
		return formatter.Success(updated)
	}
	formatter.Printf("✓ Column '%s' renamed to '%s'\n", oldTitle, updated.Title)
	return nil
}
