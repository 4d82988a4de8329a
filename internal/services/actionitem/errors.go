package actionitem

import "errors"

// Action item errors
var (
	ErrEmptyTitle      = errors.New("action item title cannot be empty")
	ErrTitleTooLong    = errors.New("action item title cannot exceed 200 characters")
	ErrInvalidActionID = errors.New("invalid action item ID")
	ErrActionNotFound  = errors.New("action item not found")
	ErrItemNotFound    = errors.New("feedback item not found")
	ErrBoardNotFound   = errors.New("board not found")
	ErrBoardArchived   = errors.New("board is archived")
)
