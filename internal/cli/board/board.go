package board

import (
	"github.com/spf13/cobra"
)

// BoardCmd returns the board parent command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage retrospective boards",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(PhaseCmd())
	cmd.AddCommand(ArchiveCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ExportCmd())
	cmd.AddCommand(ImportCmd())

	return cmd
}
