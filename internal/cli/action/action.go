package action

import (
	"github.com/spf13/cobra"
)

// ActionCmd returns the action parent command
func ActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Manage action items",
		Long: `Action items are the follow-ups a team agrees on, attached to the
feedback card that prompted them.`,
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(DoneCmd())
	cmd.AddCommand(ReopenCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
