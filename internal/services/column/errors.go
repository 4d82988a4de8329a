package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("column title cannot be empty")
	ErrTitleTooLong    = errors.New("column title cannot exceed 50 characters")
	ErrInvalidColumnID = errors.New("invalid column ID")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrInvalidColor    = errors.New("accent color must be a hex color like #0078d4")

	// Business logic errors
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnHasItems = errors.New("cannot delete column with feedback items")
	ErrWrongBoard     = errors.New("column belongs to another board")
	ErrLastColumn     = errors.New("cannot delete the last column of a board")
	ErrBoardNotFound  = errors.New("board not found")
)
