package feedback

import (
	"fmt"

	"github.com/thenoetrevino/retro/internal/models"
)

// GetNextDisplayID returns the display id for the next item added to a board.
//
// Placeholder items are ignored. When any remaining item already carries a
// display id the next id follows the highest one; otherwise items are
// numbered by count, so a board of n unnumbered items yields n+1.
func GetNextDisplayID(columns map[int]*models.BoardColumn) int {
	count, maxDisplayID := 0, 0
	for _, col := range columns {
		if col == nil {
			continue
		}
		for _, ci := range col.Items {
			if ci == nil || ci.FeedbackItem == nil || ci.FeedbackItem.IsPlaceholder() {
				continue
			}
			count++
			maxDisplayID = max(maxDisplayID, ci.FeedbackItem.DisplayID)
		}
	}

	if maxDisplayID > 0 {
		return maxDisplayID + 1
	}
	return count + 1
}

// FormatTimer renders timer seconds as m:ss
func FormatTimer(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// CardLabel returns the "#n" label shown on a card. Items that were never
// numbered fall back to their 1-based position in the column.
func CardLabel(item *models.FeedbackItem, position int) string {
	if item.DisplayID > 0 {
		return fmt.Sprintf("#%d", item.DisplayID)
	}
	return fmt.Sprintf("#%d", position+1)
}

// Placeholder returns the empty-slot item shown in a column with no feedback
func Placeholder(boardID, columnID int) *models.ColumnItem {
	return &models.ColumnItem{
		FeedbackItem: &models.FeedbackItem{
			ID:               models.EmptyFeedbackID,
			BoardID:          boardID,
			ColumnID:         columnID,
			OriginalColumnID: columnID,
		},
	}
}
