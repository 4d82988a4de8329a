package models

import "time"

// ActionItem is a follow-up task raised against a feedback item
type ActionItem struct {
	ID             int       `json:"id"`
	BoardID        int       `json:"board_id"`
	FeedbackItemID string    `json:"feedback_item_id"`
	Title          string    `json:"title"`
	Assignee       string    `json:"assignee"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetID returns the action item ID (used by quiet output)
func (a *ActionItem) GetID() int {
	return a.ID
}
