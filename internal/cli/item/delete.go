package item

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// DeleteCmd returns the item delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card",
		Long: `Delete a card and its action items (requires confirmation unless
--force or --quiet). Cards grouped under it are released where they are.

Examples:
  retro item delete 3 --board=1
  retro item delete 3 --board=1 --force
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

	item, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(cmd, formatter, fmt.Sprintf("Delete card '%s'?", item.Title), force)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !ok {
		formatter.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.FeedbackService.DeleteFeedback(ctx, item.ID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{"id": item.ID, "board_id": item.BoardID})
	}
	formatter.QuietLine(item.ID)
	formatter.Printf("✓ Card '%s' deleted\n", item.Title)
	return nil
}
