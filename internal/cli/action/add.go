package action

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	actionitemservice "github.com/thenoetrevino/retro/internal/services/actionitem"
)

// AddCmd returns the action add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Attach an action item to a card",
		Long: `Attach an action item to a feedback card.

Examples:
  retro action add --board=1 --item=3 --title="Quarantine flaky tests" --assignee=bob
  ACTION_ID=$(retro action add --board=1 --item=3 --title="Fix CI" --quiet)
`,
		RunE: runAdd,
	}

	cmd.Flags().StringP("item", "i", "", "Card number or id (required)")
	if err := cmd.MarkFlagRequired("item"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().StringP("title", "t", "", "What needs to happen (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}
	cmd.Flags().StringP("assignee", "a", "", "Who will do it")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemRef, _ := cmd.Flags().GetString("item")
	title, _ := cmd.Flags().GetString("title")
	assignee, _ := cmd.Flags().GetString("assignee")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}
	item, err := cliInstance.App.FeedbackService.ResolveFeedback(ctx, boardID, itemRef)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	created, err := cliInstance.App.ActionItemService.CreateActionItem(ctx, actionitemservice.CreateActionItemRequest{
		FeedbackItemID: item.ID,
		Title:          title,
		Assignee:       assignee,
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return formatter.Success(created)
	}
	formatter.Printf("✓ Action item added (ID: %d)\n", created.ID)
	if created.Assignee != "" {
		formatter.Printf("  Assigned to: %s\n", created.Assignee)
	}
	return nil
}
