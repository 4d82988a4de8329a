package column

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	columnservice "github.com/thenoetrevino/retro/internal/services/column"
)

// AddCmd returns the column add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a column to a board",
		Long: `Add a column to a board, at the end or after an existing column.

Examples:
  # Append
  retro column add --board=1 --title="Kudos"

  # Insert after the "What went well" column, with an accent color
  retro column add --board=1 --title="Kudos" --after="What went well" --color="#8063bf"

  # Quiet mode for bash capture
  COLUMN_ID=$(retro column add --board=1 --title="Kudos" --quiet)
`,
		RunE: runAdd,
	}

	cmd.Flags().String("title", "", "Column title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().String("color", "", "Accent color as hex, e.g. #0078d4")
	cmd.Flags().String("after", "", "Insert after this column (ID or title)")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	title, _ := cmd.Flags().GetString("title")
	color, _ := cmd.Flags().GetString("color")
	afterRef, _ := cmd.Flags().GetString("after")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	req := columnservice.CreateColumnRequest{
		BoardID:     boardID,
		Title:       title,
		AccentColor: color,
	}
	if afterRef != "" {
		after, err := cli.ResolveColumn(ctx, cliInstance, boardID, afterRef)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
		req.AfterID = &after.ID
	}

	col, err := cliInstance.App.ColumnService.CreateColumn(ctx, req)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return formatter.Success(col)
	}
	formatter.Printf("✓ Column '%s' added to board %d (ID: %d)\n", col.Title, boardID, col.ID)
	return nil
}
