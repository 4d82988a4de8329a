package item

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// MoveCmd returns the item move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <card>",
		Short: "Move a card to another column",
		Long: `Move a card, with any cards grouped under it, to another column of
the same board. Grouped cards cannot be moved on their own; ungroup them first.

Examples:
  retro item move 3 --board=1 --column="What went well"
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().StringP("column", "c", "", "Target column ID or title (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	columnRef, _ := cmd.Flags().GetString("column")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	item, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}
	col, err := cli.ResolveColumn(ctx, cliInstance, item.BoardID, columnRef)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if err := cliInstance.App.FeedbackService.MoveFeedback(ctx, item.ID, col.ID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, item.ID)
	}
	formatter.Printf("✓ Card '%s' moved to '%s'\n", args[0], col.Title)
	if n := len(item.ChildIDs); n > 0 {
		formatter.Printf("  %d grouped card(s) moved with it\n", n)
	}
	return nil
}
