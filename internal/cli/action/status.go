package action

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// DoneCmd returns the action done subcommand
func DoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <action-id>",
		Short: "Mark an action item as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetCompleted(cmd, args, true)
		},
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// ReopenCmd returns the action reopen subcommand
func ReopenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reopen <action-id>",
		Short: "Reopen a completed action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetCompleted(cmd, args, false)
		},
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runSetCompleted(cmd *cobra.Command, args []string, completed bool) error {
	ctx := cmd.Context()

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	id, err := cli.ParseID("action item", args[0])
	if err != nil {
		return cli.UsageError(formatter, err, "Use 'retro action list' to see action item IDs")
	}

	svc := cliInstance.App.ActionItemService
	if err := svc.SetCompleted(ctx, id, completed); err != nil {
		return cli.HandleError(formatter, err)
	}
	a, err := svc.GetActionItem(ctx, id)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return formatter.Success(a)
	}
	if completed {
		formatter.Printf("✓ Action item %d done: %s\n", a.ID, a.Title)
	} else {
		formatter.Printf("✓ Action item %d reopened: %s\n", a.ID, a.Title)
	}
	return nil
}
