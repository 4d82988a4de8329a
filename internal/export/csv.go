package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/thenoetrevino/retro/internal/services/feedback"
)

var csvHeader = []string{
	"column", "label", "title", "author", "upvotes", "timer", "grouped_under", "action_items",
}

// WriteCSV writes one row per card, in board order
func WriteCSV(w io.Writer, doc *Document) error {
	labels := itemLabels(doc)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, col := range doc.Columns {
		for _, item := range col.Items {
			actions := make([]string, 0, len(item.ActionItems))
			for _, a := range item.ActionItems {
				actions = append(actions, actionText(a))
			}
			row := []string{
				col.Title,
				labels[item.ID],
				item.Title,
				item.CreatedBy,
				strconv.Itoa(item.Upvotes),
				feedback.FormatTimer(item.TimerSecs),
				labels[item.ParentID],
				strings.Join(actions, "; "),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func actionText(a ActionDoc) string {
	var sb strings.Builder
	if a.Completed {
		sb.WriteString("[x] ")
	} else {
		sb.WriteString("[ ] ")
	}
	sb.WriteString(a.Title)
	if a.Assignee != "" {
		sb.WriteString(" (@" + a.Assignee + ")")
	}
	return sb.String()
}
