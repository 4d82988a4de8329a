package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/retro/internal/cli/styles"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/services/feedback"
)

// FormatItemLine renders one card as a single line:
//
//	#3 Flaky CI builds  ▲2  ⏱ 1:35 elapsed  (ana)
//
// position is the card's index in its column, used to label unnumbered cards.
func FormatItemLine(item *models.FeedbackItem, position int, now time.Time) string {
	if item.IsPlaceholder() {
		return styles.SubtitleStyle.Render("(no feedback yet)")
	}

	parts := []string{
		styles.LabelStyle.Render(feedback.CardLabel(item, position)),
		styles.ValueStyle.Render(item.Title),
	}
	if item.Upvotes > 0 {
		parts = append(parts, styles.VoteStyle.Render(fmt.Sprintf("▲%d", item.Upvotes)))
	}
	if secs := item.ElapsedSecs(now); secs > 0 || item.TimerRunning() {
		timer := fmt.Sprintf("⏱ %s elapsed", feedback.FormatTimer(secs))
		if item.TimerRunning() {
			timer += " (running)"
		}
		parts = append(parts, styles.TimerStyle.Render(timer))
	}
	if item.CreatedBy != "" {
		parts = append(parts, styles.SubtitleStyle.Render("("+item.CreatedBy+")"))
	}
	return strings.Join(parts, "  ")
}

// ItemJSON is the JSON shape of a feedback item in command output
type ItemJSON struct {
	ID               string         `json:"id"`
	BoardID          int            `json:"board_id"`
	ColumnID         int            `json:"column_id"`
	OriginalColumnID int            `json:"original_column_id"`
	DisplayID        int            `json:"display_id,omitempty"`
	Label            string         `json:"label"`
	Title            string         `json:"title"`
	CreatedBy        string         `json:"created_by,omitempty"`
	Upvotes          int            `json:"upvotes"`
	Votes            map[string]int `json:"votes,omitempty"`
	TimerSecs        int            `json:"timer_secs"`
	TimerRunning     bool           `json:"timer_running"`
	ParentID         string         `json:"parent_id,omitempty"`
	ChildIDs         []string       `json:"child_ids,omitempty"`
}

// NewItemJSON converts an item for JSON output
func NewItemJSON(item *models.FeedbackItem, position int, now time.Time) ItemJSON {
	out := ItemJSON{
		ID:               item.ID,
		BoardID:          item.BoardID,
		ColumnID:         item.ColumnID,
		OriginalColumnID: item.OriginalColumnID,
		DisplayID:        item.DisplayID,
		Label:            feedback.CardLabel(item, position),
		Title:            item.Title,
		CreatedBy:        item.CreatedBy,
		Upvotes:          item.Upvotes,
		TimerSecs:        item.ElapsedSecs(now),
		TimerRunning:     item.TimerRunning(),
		ChildIDs:         item.ChildIDs,
	}
	if len(item.VoteCollection) > 0 {
		out.Votes = item.VoteCollection
	}
	if item.ParentID != nil {
		out.ParentID = *item.ParentID
	}
	return out
}

// GetID returns the item ID (used by quiet output)
func (i ItemJSON) GetID() string {
	return i.ID
}

// ItemPosition returns the index of item within its column of the snapshot,
// or 0 when it is not found.
func ItemPosition(columns []*models.BoardColumn, item *models.FeedbackItem) int {
	for _, col := range columns {
		for i, ci := range col.Items {
			if ci.FeedbackItem != nil && ci.FeedbackItem.ID == item.ID {
				return i
			}
		}
	}
	return 0
}
