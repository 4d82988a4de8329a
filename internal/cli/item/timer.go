package item

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/services/feedback"
)

// TimerCmd returns the item timer command group
func TimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Time the discussion of a card",
		Long: `Each card has a discussion timer. Stopping adds the time since the last
start to the card's total; reset clears it.

Examples:
  retro item timer start 3 --board=1
  retro item timer stop 3 --board=1
  retro item timer reset 3 --board=1
`,
	}

	cmd.AddCommand(timerSubcommand("start", "Start the card's timer",
		func(svc feedback.Service) timerFunc { return svc.StartTimer }))
	cmd.AddCommand(timerSubcommand("stop", "Stop the card's timer",
		func(svc feedback.Service) timerFunc { return svc.StopTimer }))
	cmd.AddCommand(timerSubcommand("reset", "Stop the timer and clear the elapsed time",
		func(svc feedback.Service) timerFunc { return svc.ResetTimer }))

	return cmd
}

type timerFunc func(ctx context.Context, id string) (*models.FeedbackItem, error)

func timerSubcommand(name, short string, op func(feedback.Service) timerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <card>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cliInstance, formatter, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			defer cliInstance.CloseOrLog()

			item, err := resolve(ctx, cmd, cliInstance, formatter, args[0])
			if err != nil {
				return err
			}

			updated, err := op(cliInstance.App.FeedbackService)(ctx, item.ID)
			if err != nil {
				return cli.HandleError(formatter, err)
			}

			if !formatter.Human() {
				return succeed(ctx, cliInstance, formatter, item.ID)
			}
			state := "stopped"
			if updated.TimerRunning() {
				state = "running"
			}
			formatter.Printf("⏱ %s elapsed (%s)\n", feedback.FormatTimer(updated.ElapsedSecs(time.Now())), state)
			return nil
		},
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}
