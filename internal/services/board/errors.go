package board

import "errors"

// Board-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("board title cannot be empty")
	ErrTitleTooLong    = errors.New("board title cannot exceed 100 characters")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrInvalidMaxVotes = errors.New("max votes per user must be between 1 and 100")
	ErrUnknownTemplate = errors.New("unknown board template")
	ErrNoColumns       = errors.New("a board needs at least one column")

	// Business logic errors
	ErrBoardNotFound   = errors.New("board not found")
	ErrBoardArchived   = errors.New("board is archived")
	ErrPhaseOutOfOrder = errors.New("phase must advance one step at a time (use force to skip)")
	ErrPhaseUnchanged  = errors.New("board is already in that phase")
)
