package item

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
)

// GroupCmd returns the item group subcommand
func GroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group <card> <under-card>",
		Short: "Group a card under another card",
		Long: `Group a card under another, related card. The grouped card moves to
the other card's column and remembers where it came from.

Examples:
  retro item group 5 2 --board=1
`,
		Args: cobra.ExactArgs(2),
		RunE: runGroup,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

// UngroupCmd returns the item ungroup subcommand
func UngroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ungroup <card>",
		Short: "Release a grouped card back to its original column",
		Args:  cobra.ExactArgs(1),
		RunE:  runUngroup,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runGroup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	child, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}
	parent, err := resolve(ctx, cmd, cliInstance, formatter, args[1])
	if err != nil {
		return err
	}

	if err := cliInstance.App.FeedbackService.Group(ctx, child.ID, parent.ID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, child.ID)
	}
	formatter.Printf("✓ Card '%s' grouped under '%s'\n", args[0], args[1])
	return nil
}

func runUngroup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	child, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}

	if err := cliInstance.App.FeedbackService.Ungroup(ctx, child.ID); err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, child.ID)
	}
	formatter.Printf("✓ Card '%s' ungrouped\n", args[0])
	return nil
}
