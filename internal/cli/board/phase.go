package board

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/models"
)

// PhaseCmd returns the board phase subcommand
func PhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [collect|group|vote|act]",
		Short: "Show or change the board's phase",
		Long: `Boards move through collect, group, vote and act, one step at a time.
Without an argument the current phase is printed. --next advances one step;
--force allows jumping to any phase.

Examples:
  retro board phase --board=1
  retro board phase --board=1 --next
  retro board phase vote --board=1
  retro board phase collect --board=1 --force
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPhase,
	}

	cmd.Flags().Bool("next", false, "Advance to the next phase")
	cmd.Flags().Bool("force", false, "Allow skipping or going back")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runPhase(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	next, _ := cmd.Flags().GetBool("next")
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	board, err := cliInstance.App.BoardService.GetBoard(ctx, boardID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	var target models.Phase
	switch {
	case len(args) == 1 && next:
		return cli.UsageError(formatter, errors.New("give a phase or --next, not both"), "")
	case len(args) == 1:
		target, err = models.ParsePhase(args[0])
		if err != nil {
			return cli.ValidationError(formatter, err)
		}
	case next:
		p, ok := board.Phase.Next()
		if !ok {
			return cli.ValidationError(formatter, errors.New("board is already in the last phase (act)"))
		}
		target = p
	default:
		if !formatter.Human() {
			return formatter.Success(board)
		}
		formatter.Printf("Board %d is in the %s phase\n", board.ID, board.Phase)
		return nil
	}

	updated, err := cliInstance.App.BoardService.SetPhase(ctx, boardID, target, force)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if !formatter.Human() {
		return formatter.Success(updated)
	}
	formatter.Printf("✓ Board %d moved from %s to %s\n", updated.ID, board.Phase, updated.Phase)
	return nil
}
