package models

// Column is a named bucket of feedback on a board (e.g., "What went well").
// Columns are organized as a doubly-linked list using PrevID and NextID pointers
type Column struct {
	ID          int    `json:"id"`
	BoardID     int    `json:"board_id"`
	Title       string `json:"title"`
	AccentColor string `json:"accent_color"` // Hex color code (e.g., "#008000")
	PrevID      *int   `json:"prev_id"`      // ID of the previous column (NULL for head)
	NextID      *int   `json:"next_id"`      // ID of the next column (NULL for tail)
}

// GetID returns the column ID (used by quiet output)
func (c *Column) GetID() int {
	return c.ID
}

// ColumnItem wraps one feedback item with the action items raised against it
type ColumnItem struct {
	FeedbackItem *FeedbackItem
	ActionItems  []*ActionItem
}

// BoardColumn is a column together with the items it currently holds.
// Properties may be nil when only the items matter.
type BoardColumn struct {
	Properties *Column
	Items      []*ColumnItem
}

// ColumnMap indexes ordered board columns by column ID
func ColumnMap(columns []*BoardColumn) map[int]*BoardColumn {
	result := make(map[int]*BoardColumn, len(columns))
	for _, col := range columns {
		if col == nil || col.Properties == nil {
			continue
		}
		result[col.Properties.ID] = col
	}
	return result
}
