package item

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/models"
)

// ListCmd returns the item list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a board's cards",
		Long: `List the cards on a board, column by column. --column limits the
output to one column; --sort=votes orders each column by votes.

Examples:
  retro item list --board=1
  retro item list --board=1 --column="What didn't go well" --sort=votes
  retro item list --board=1 --json
`,
		RunE: runList,
	}

	cmd.Flags().StringP("column", "c", "", "Only this column (ID or title)")
	cmd.Flags().String("sort", "board", "Order within a column: board or votes")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	columnRef, _ := cmd.Flags().GetString("column")
	sortBy, _ := cmd.Flags().GetString("sort")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	var onlyColumn int
	if columnRef != "" {
		col, err := cli.ResolveColumn(ctx, cliInstance, boardID, columnRef)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
		onlyColumn = col.ID
	}

	columns, err := cliInstance.App.FeedbackService.Snapshot(ctx, boardID, false)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	now := time.Now()
	var rows []row
	for i, col := range columns {
		if onlyColumn != 0 && col.Properties.ID != onlyColumn {
			continue
		}
		rows = append(rows, columnRows(i, col, now)...)
	}
	if err := sortRows(rows, sortBy); err != nil {
		return cli.UsageError(formatter, err, "")
	}

	if formatter.JSON {
		out := make([]cli.ItemJSON, len(rows))
		for i, r := range rows {
			out[i] = r.json
		}
		return formatter.Success(out)
	}
	if formatter.Quiet {
		for _, r := range rows {
			formatter.QuietLine(r.json.ID)
		}
		return nil
	}

	if len(rows) == 0 {
		formatter.Println("No cards yet. Add one with 'retro item add'")
		return nil
	}
	column := ""
	for _, r := range rows {
		if r.column != column {
			column = r.column
			formatter.Println(styles.SectionStyle.Render(column))
		}
		formatter.Printf("  %s\n", r.line)
	}
	return nil
}

type row struct {
	colIndex int
	column   string
	votes    int
	line     string
	json     cli.ItemJSON
}

func columnRows(colIndex int, col *models.BoardColumn, now time.Time) []row {
	rows := make([]row, 0, len(col.Items))
	for pos, ci := range col.Items {
		item := ci.FeedbackItem
		line := cli.FormatItemLine(item, pos, now)
		if item.IsGrouped() {
			line = "└ " + line
		}
		rows = append(rows, row{
			colIndex: colIndex,
			column:   col.Properties.Title,
			votes:    item.Upvotes,
			line:     line,
			json:     cli.NewItemJSON(item, pos, now),
		})
	}
	return rows
}

// sortRows keeps columns in board order and reorders cards within each
func sortRows(rows []row, by string) error {
	switch by {
	case "", "board":
		return nil
	case "votes":
		slices.SortStableFunc(rows, func(a, b row) int {
			if c := cmp.Compare(a.colIndex, b.colIndex); c != 0 {
				return c
			}
			return cmp.Compare(b.votes, a.votes)
		})
		return nil
	default:
		return fmt.Errorf("unknown sort order '%s' (must be: board, votes)", by)
	}
}
