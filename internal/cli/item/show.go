package item

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/services/feedback"
)

// ShowCmd returns the item show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card>",
		Short: "Show a card with its votes, timer, group and action items",
		Long: `Show everything about one card.

Examples:
  retro item show 3 --board=1
  retro item show '#3' --board=1 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	columns, err := cliInstance.App.FeedbackService.Snapshot(ctx, item.BoardID, false)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	actions, err := cliInstance.App.ActionItemService.ListByFeedback(ctx, item.ID)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	now := time.Now()
	position := cli.ItemPosition(columns, item)

	if formatter.JSON {
		return formatter.Success(map[string]any{
			"item":         cli.NewItemJSON(item, position, now),
			"action_items": actions,
		})
	}
	if formatter.Quiet {
		return formatter.Success(item)
	}

	byColumn := models.ColumnMap(columns)
	columnTitle := func(id int) string {
		if col, ok := byColumn[id]; ok {
			return col.Properties.Title
		}
		return fmt.Sprintf("column %d (deleted)", id)
	}

	var b []string
	b = append(b, styles.TitleStyle.Render(feedback.CardLabel(item, position)+" "+item.Title))
	b = append(b, field("Column", columnTitle(item.ColumnID)))
	if item.OriginalColumnID != item.ColumnID {
		b = append(b, field("Original column", columnTitle(item.OriginalColumnID)))
	}
	if item.CreatedBy != "" {
		b = append(b, field("Author", item.CreatedBy))
	}
	b = append(b, field("Votes", fmt.Sprintf("%d%s", item.Upvotes, voters(item.VoteCollection))))

	timer := feedback.FormatTimer(item.ElapsedSecs(now)) + " elapsed"
	if item.TimerRunning() {
		timer += " (running)"
	}
	b = append(b, field("Timer", timer))

	if item.ParentID != nil {
		parent, err := cliInstance.App.FeedbackService.GetFeedback(ctx, *item.ParentID)
		if err == nil {
			b = append(b, field("Grouped under", feedback.CardLabel(parent, cli.ItemPosition(columns, parent))+" "+parent.Title))
		}
	}
	if len(item.ChildIDs) > 0 {
		b = append(b, field("Grouped cards", fmt.Sprint(len(item.ChildIDs))))
	}

	if len(actions) > 0 {
		b = append(b, "", styles.SectionStyle.Render("Action items"))
		for _, a := range actions {
			check := "[ ]"
			if a.Completed {
				check = "[x]"
			}
			line := fmt.Sprintf("%s %s (ID: %d)", check, a.Title, a.ID)
			if a.Assignee != "" {
				line += " @" + a.Assignee
			}
			b = append(b, "  "+line)
		}
	}

	formatter.Println(styles.RenderCard(strings.Join(b, "\n")))
	return nil
}

func field(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}

// voters formats the per-user vote breakdown, e.g. " (ana 2, bob 1)"
func voters(votes map[string]int) string {
	if len(votes) == 0 {
		return ""
	}
	names := make([]string, 0, len(votes))
	for name := range votes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := " ("
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %d", name, votes[name])
	}
	return out + ")"
}
