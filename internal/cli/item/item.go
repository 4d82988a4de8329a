package item

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/models"
)

// ItemCmd returns the item parent command
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"card"},
		Short:   "Manage feedback cards",
		Long: `Manage the feedback cards on a board.

Cards are referenced by their number (#3 or 3) or by their id
(or an unambiguous id prefix of at least 4 characters).`,
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(VoteCmd())
	cmd.AddCommand(UnvoteCmd())
	cmd.AddCommand(TimerCmd())
	cmd.AddCommand(GroupCmd())
	cmd.AddCommand(UngroupCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// resolve finds the card named by ref on the command's board
func resolve(ctx context.Context, cmd *cobra.Command, c *cli.CLI, f *cli.OutputFormatter, ref string) (*models.FeedbackItem, error) {
	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return nil, cli.UsageError(f, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}
	item, err := c.App.FeedbackService.ResolveFeedback(ctx, boardID, ref)
	if err != nil {
		return nil, cli.HandleError(f, err)
	}
	return item, nil
}

// itemJSON reloads a card and converts it for output, labelled by its
// position on the board
func itemJSON(ctx context.Context, c *cli.CLI, id string) (cli.ItemJSON, error) {
	item, err := c.App.FeedbackService.GetFeedback(ctx, id)
	if err != nil {
		return cli.ItemJSON{}, err
	}
	columns, err := c.App.FeedbackService.Snapshot(ctx, item.BoardID, false)
	if err != nil {
		return cli.ItemJSON{}, err
	}
	return cli.NewItemJSON(item, cli.ItemPosition(columns, item), time.Now()), nil
}

// succeed writes the machine-readable result for a card, or nothing in
// human mode
func succeed(ctx context.Context, c *cli.CLI, f *cli.OutputFormatter, id string) error {
	if f.Human() {
		return nil
	}
	out, err := itemJSON(ctx, c, id)
	if err != nil {
		return cli.HandleError(f, err)
	}
	return f.Success(out)
}
