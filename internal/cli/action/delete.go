package action

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// DeleteCmd returns the action delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <action-id>",
		Short: "Delete an action item",
		Long: `Delete an action item (requires confirmation unless --force or --quiet).

Examples:
  retro action delete 4
  retro action delete 4 --force
`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().Bool("force", false, "Skip confirmation")
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

	id, err := cli.ParseID("action item", args[0])
	if err != nil {
		return cli.UsageError(formatter, err, "Use 'retro action list' to see action item IDs")
	}

	a, err := cliInstance.App.ActionItemService.GetActionItem(ctx, id)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	ok, err := cli.Confirm(cmd, formatter, fmt.Sprintf("Delete action item '%s'?", a.Title), force)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !ok {
		formatter.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.ActionItemService.DeleteActionItem(ctx, id); err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{"id": id})
	}
	formatter.QuietLine(id)
	formatter.Printf("✓ Action item %d deleted\n", id)
	return nil
}
