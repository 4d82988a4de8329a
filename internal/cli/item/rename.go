package item

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// RenameCmd returns the item rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <card>",
		Short: "Change a card's text",
		Long: `Change a card's text. Its number, votes and timer are kept.

Examples:
  retro item rename 3 --board=1 --title="CI is flaky on Mondays"
`,
		Args: cobra.ExactArgs(1),
		RunE: runRename,
	}

	cmd.Flags().StringP("title", "t", "", "New card text (required)")
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

	item, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}

	if err := cliInstance.App.FeedbackService.RenameFeedback(ctx, item.ID, title); err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, item.ID)
	}
	formatter.Printf("✓ Card '%s' renamed\n", args[0])
	return nil
}
