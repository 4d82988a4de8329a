package item

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	feedbackservice "github.com/thenoetrevino/retro/internal/services/feedback"
	"github.com/thenoetrevino/retro/internal/user"
)

// AddCmd returns the item add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a feedback card to a column",
		Long: `Add a feedback card. The card gets the next free number on the board.
Cards can only be added in the collect phase unless --force is given.

Examples:
  retro item add --board=1 --column="What went well" --title="Pairing sessions"
  retro item add "Flaky CI" --board=1 --column=2

  # Quiet mode prints the new card's id
  ITEM=$(retro item add "Flaky CI" --board=1 --column=2 --quiet)
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringP("column", "c", "", "Column ID or title (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().StringP("title", "t", "", "Card text (or pass it as an argument)")
	cmd.Flags().Bool("force", false, "Add outside the collect phase")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	columnRef, _ := cmd.Flags().GetString("column")
	title, _ := cmd.Flags().GetString("title")
	force, _ := cmd.Flags().GetBool("force")
	if len(args) == 1 {
		title = args[0]
	}

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}
	if strings.TrimSpace(title) == "" {
		return cli.UsageError(formatter, feedbackservice.ErrEmptyTitle, "Pass the text as an argument or with --title")
	}

	col, err := cli.ResolveColumn(ctx, cliInstance, boardID, columnRef)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	item, err := cliInstance.App.FeedbackService.CreateFeedback(ctx, feedbackservice.CreateFeedbackRequest{
		BoardID:   boardID,
		ColumnID:  col.ID,
		Title:     title,
		CreatedBy: user.GetCurrentUsername(),
		Force:     force,
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, item.ID)
	}
	formatter.Printf("✓ Card #%d added to '%s'\n", item.DisplayID, col.Title)
	return nil
}
