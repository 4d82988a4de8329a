package board

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/models"
)

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a board with its columns and cards",
		Long: `Show a board: its phase, vote budget, and every column with its cards.
Grouped cards are listed under the card they are grouped with.

Examples:
  retro board show --board=1
  RETRO_BOARD=1 retro board show --json
`,
		RunE: runShow,
	}

	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

type columnJSON struct {
	*models.Column
	Items []cli.ItemJSON `json:"items"`
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
	columns, err := cliInstance.App.FeedbackService.Snapshot(ctx, boardID, formatter.Human())
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	now := time.Now()

	if formatter.JSON {
		cols := make([]columnJSON, len(columns))
		for i, col := range columns {
			cols[i] = columnJSON{Column: col.Properties, Items: make([]cli.ItemJSON, 0, len(col.Items))}
			for pos, ci := range col.Items {
				cols[i].Items = append(cols[i].Items, cli.NewItemJSON(ci.FeedbackItem, pos, now))
			}
		}
		return formatter.Success(map[string]any{
			"board":   board,
			"columns": cols,
		})
	}
	if formatter.Quiet {
		return formatter.Success(board)
	}

	formatter.Println(styles.TitleStyle.Render(board.Title))
	formatter.Printf("%s %s  %s %d per person",
		styles.LabelStyle.Render("Phase:"), board.Phase,
		styles.LabelStyle.Render("Votes:"), board.MaxVotesPerUser)
	if board.IsAnonymous {
		formatter.Printf("  %s", styles.SubtitleStyle.Render("anonymous"))
	}
	if board.IsArchived {
		formatter.Printf("  %s", styles.WarningStyle.Render("archived"))
	}
	formatter.Println()

	for _, col := range columns {
		formatter.Println(styles.RenderColumnHeader(col.Properties))
		printColumnItems(formatter, col, now)
	}
	return nil
}

// printColumnItems lists top-level cards with their grouped cards beneath
func printColumnItems(formatter *cli.OutputFormatter, col *models.BoardColumn, now time.Time) {
	position := make(map[string]int, len(col.Items))
	children := make(map[string][]*models.FeedbackItem)
	for i, ci := range col.Items {
		item := ci.FeedbackItem
		position[item.ID] = i
		if item.ParentID != nil {
			children[*item.ParentID] = append(children[*item.ParentID], item)
		}
	}

	for i, ci := range col.Items {
		item := ci.FeedbackItem
		if item.ParentID != nil {
			if _, parentHere := position[*item.ParentID]; parentHere {
				continue
			}
		}
		formatter.Printf("  %s\n", cli.FormatItemLine(item, i, now))
		for _, child := range children[item.ID] {
			formatter.Printf("    └ %s\n", cli.FormatItemLine(child, position[child.ID], now))
		}
		for _, a := range ci.ActionItems {
			check := "[ ]"
			if a.Completed {
				check = "[x]"
			}
			line := check + " " + a.Title
			if a.Assignee != "" {
				line += " (@" + a.Assignee + ")"
			}
			formatter.Printf("    %s\n", styles.SubtitleStyle.Render(line))
		}
	}
}
