package models

import "time"

// EmptyFeedbackID is the reserved ID of placeholder items. Placeholders
// occupy empty column slots and are never numbered or persisted.
const EmptyFeedbackID = "emptyFeedbackItem"

// FeedbackItem is a single card of feedback on a board
type FeedbackItem struct {
	ID               string
	BoardID          int
	ColumnID         int
	OriginalColumnID int // Column an ungrouped item returns to
	Title            string
	DisplayID        int // User-facing sequential number, 0 when never assigned
	Upvotes          int
	VoteCollection   map[string]int // user -> votes cast on this item
	CreatedBy        string         // Empty on anonymous boards
	TimerSecs        int
	TimerStartedAt   *time.Time // Non-nil while the timer is running
	ParentID         *string    // Set when grouped under another item
	ChildIDs         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPlaceholder reports whether the item is an empty-slot placeholder
func (f *FeedbackItem) IsPlaceholder() bool {
	return f.ID == EmptyFeedbackID
}

// TimerRunning reports whether the discussion timer is currently running
func (f *FeedbackItem) TimerRunning() bool {
	return f.TimerStartedAt != nil
}

// ElapsedSecs returns the accumulated timer seconds including the running
// interval, measured against now.
func (f *FeedbackItem) ElapsedSecs(now time.Time) int {
	total := f.TimerSecs
	if f.TimerStartedAt != nil && now.After(*f.TimerStartedAt) {
		total += int(now.Sub(*f.TimerStartedAt).Seconds())
	}
	return total
}

// IsGrouped reports whether the item sits under a parent item
func (f *FeedbackItem) IsGrouped() bool {
	return f.ParentID != nil
}

// UserVotes returns how many votes user has cast on this item
func (f *FeedbackItem) UserVotes(user string) int {
	if f.VoteCollection == nil {
		return 0
	}
	return f.VoteCollection[user]
}

// GetID returns the item ID (used by quiet output)
func (f *FeedbackItem) GetID() string {
	return f.ID
}
