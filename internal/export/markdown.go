package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/services/feedback"
)

// GenerateMarkdown renders the board as a markdown summary. Grouped cards
// are nested under their parent and action items follow the card they
// belong to.
func GenerateMarkdown(doc *Document) string {
	labels := itemLabels(doc)

	children := make(map[string][]ItemDoc)
	for _, col := range doc.Columns {
		for _, item := range col.Items {
			if item.ParentID != "" {
				children[item.ParentID] = append(children[item.ParentID], item)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Board.Title))
	sb.WriteString(fmt.Sprintf("*Phase: %s | Votes per person: %d | Exported: %s*\n\n",
		doc.Board.Phase, doc.Board.MaxVotesPerUser, doc.ExportedAt.Format("2006-01-02 15:04 MST")))

	var openActions []string
	for _, col := range doc.Columns {
		sb.WriteString(fmt.Sprintf("## %s\n\n", col.Title))

		written := 0
		for _, item := range col.Items {
			if item.ParentID != "" {
				continue
			}
			writeItem(&sb, item, labels, "")
			for _, child := range children[item.ID] {
				writeItem(&sb, child, labels, "  ")
			}
			for _, a := range item.ActionItems {
				if !a.Completed {
					openActions = append(openActions, fmt.Sprintf("%s %s", labels[item.ID], actionText(a)))
				}
			}
			written++
		}
		if written == 0 {
			sb.WriteString("_No feedback_\n")
		}
		sb.WriteString("\n")
	}

	if len(openActions) > 0 {
		sb.WriteString("## Open action items\n\n")
		for _, line := range openActions {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeItem(sb *strings.Builder, item ItemDoc, labels map[string]string, indent string) {
	var details []string
	if item.Upvotes > 0 {
		details = append(details, plural(item.Upvotes, "vote"))
	}
	if item.TimerSecs > 0 {
		details = append(details, feedback.FormatTimer(item.TimerSecs)+" discussed")
	}
	if item.CreatedBy != "" {
		details = append(details, "by "+item.CreatedBy)
	}

	sb.WriteString(fmt.Sprintf("%s- **%s** %s", indent, labels[item.ID], item.Title))
	if len(details) > 0 {
		sb.WriteString(" (" + strings.Join(details, ", ") + ")")
	}
	sb.WriteString("\n")

	for _, a := range item.ActionItems {
		check := " "
		if a.Completed {
			check = "x"
		}
		line := fmt.Sprintf("%s  - [%s] %s", indent, check, a.Title)
		if a.Assignee != "" {
			line += " (@" + a.Assignee + ")"
		}
		sb.WriteString(line + "\n")
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// itemLabels maps item ids to their "#n" card labels
func itemLabels(doc *Document) map[string]string {
	labels := make(map[string]string)
	for _, col := range doc.Columns {
		for pos, item := range col.Items {
			labels[item.ID] = feedback.CardLabel(&models.FeedbackItem{DisplayID: item.DisplayID}, pos)
		}
	}
	return labels
}

// RenderTerminal styles markdown for the terminal with word wrap at width
func RenderTerminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	return renderer.Render(markdown)
}
