package board

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/export"
	"github.com/thenoetrevino/retro/internal/user"
)

// ImportCmd returns the board import subcommand
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create a board from a JSON export",
		Long: `Create a new board from a file written by 'retro board export --format=json'.
Cards keep their #numbers; votes, timers, groups and action items are restored.

Examples:
  retro board import --file=retro.json
  retro board import --file=retro.json --title="Sprint 42 (copy)"
`,
		RunE: runImport,
	}

	cmd.Flags().StringP("file", "f", "", "JSON export to import (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().String("title", "", "Title for the new board (default: the exported title)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("file")
	title, _ := cmd.Flags().GetString("title")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	f, err := os.Open(path)
	if err != nil {
		return cli.HandleError(formatter, fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()

	doc, err := export.ReadJSON(f)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	board, err := export.Import(ctx, cliInstance.App.Repo(), doc, export.ImportOptions{
		Title:     title,
		CreatedBy: user.GetCurrentUsername(),
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	events.PublishChange(cliInstance.App.Events(), board.ID, events.EntityBoard, fmt.Sprint(board.ID))

	if !formatter.Human() {
		return formatter.Success(board)
	}
	formatter.Printf("✓ Board '%s' imported (ID: %d)\n", board.Title, board.ID)
	return nil
}
