package action

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/services/feedback"
)

// ListCmd returns the action list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List action items",
		Long: `List the action items of a board, or of one card.

Examples:
  retro action list --board=1
  retro action list --board=1 --open
  retro action list --board=1 --item=3 --json
`,
		RunE: runList,
	}

	cmd.Flags().StringP("item", "i", "", "Only this card's action items")
	cmd.Flags().Bool("open", false, "Hide completed action items")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemRef, _ := cmd.Flags().GetString("item")
	openOnly, _ := cmd.Flags().GetBool("open")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	var actions []*models.ActionItem
	if itemRef != "" {
		item, err := cliInstance.App.FeedbackService.ResolveFeedback(ctx, boardID, itemRef)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
		actions, err = cliInstance.App.ActionItemService.ListByFeedback(ctx, item.ID)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
	} else {
		actions, err = cliInstance.App.ActionItemService.ListByBoard(ctx, boardID)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
	}

	if openOnly {
		open := actions[:0]
		for _, a := range actions {
			if !a.Completed {
				open = append(open, a)
			}
		}
		actions = open
	}

	if formatter.JSON {
		return formatter.Success(actions)
	}
	if formatter.Quiet {
		for _, a := range actions {
			formatter.QuietLine(a.ID)
		}
		return nil
	}

	if len(actions) == 0 {
		formatter.Println("No action items")
		return nil
	}

	columns, err := cliInstance.App.FeedbackService.Snapshot(ctx, boardID, false)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	cards := cardsByID(columns)

	formatter.Println(styles.SectionStyle.Render("Action items"))
	for _, a := range actions {
		formatter.Printf("  %s\n", formatAction(a, cards[a.FeedbackItemID]))
	}
	return nil
}

type card struct {
	label string
	title string
}

func cardsByID(columns []*models.BoardColumn) map[string]card {
	cards := make(map[string]card)
	for _, col := range columns {
		for pos, ci := range col.Items {
			item := ci.FeedbackItem
			cards[item.ID] = card{label: feedback.CardLabel(item, pos), title: item.Title}
		}
	}
	return cards
}

func formatAction(a *models.ActionItem, c card) string {
	check := "[ ]"
	if a.Completed {
		check = styles.SuccessStyle.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", check, a.Title)
	if a.Assignee != "" {
		line += " " + styles.LabelStyle.Render("@"+a.Assignee)
	}
	if c.label != "" {
		line += " " + styles.SubtitleStyle.Render(fmt.Sprintf("(%s %s)", c.label, c.title))
	}
	return line + " " + styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", a.ID))
}
