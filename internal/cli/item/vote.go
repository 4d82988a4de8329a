package item

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/user"
)

// VoteCmd returns the item vote subcommand
func VoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <card>",
		Short: "Vote for a card",
		Long: `Spend one of your votes on a card. Each person has the board's
votes-per-person budget across all cards. Voting is only open in the vote
phase unless --force is given.

Examples:
  retro item vote 3 --board=1
  retro item vote 3 --board=1 --user=ana
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVote(cmd, args, true)
		},
	}
	addVoteFlags(cmd)
	return cmd
}

// UnvoteCmd returns the item unvote subcommand
func UnvoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unvote <card>",
		Short: "Take back a vote",
		Long: `Take back one of your votes on a card.

Examples:
  retro item unvote 3 --board=1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVote(cmd, args, false)
		},
	}
	addVoteFlags(cmd)
	return cmd
}

func addVoteFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "Vote as this user (default: current user, or "+user.EnvUser+")")
	cmd.Flags().Bool("force", false, "Vote outside the vote phase")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)
}

func runVote(cmd *cobra.Command, args []string, up bool) error {
	ctx := cmd.Context()
	voter, _ := cmd.Flags().GetString("user")
	force, _ := cmd.Flags().GetBool("force")
	if voter == "" {
		voter = user.GetCurrentUsername()
	}

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	item, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
	if err != nil {
		return err
	}

	var upvotes int
	if up {
		upvotes, err = cliInstance.App.FeedbackService.Vote(ctx, item.ID, voter, force)
	} else {
		upvotes, err = cliInstance.App.FeedbackService.Unvote(ctx, item.ID, voter, force)
	}
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if !formatter.Human() {
		return succeed(ctx, cliInstance, formatter, item.ID)
	}
	verb := "Vote added to"
	if !up {
		verb = "Vote removed from"
	}
	formatter.Printf("✓ %s '%s' %s\n", verb, args[0], styles.VoteStyle.Render("▲"+strconv.Itoa(upvotes)))
	return nil
}
