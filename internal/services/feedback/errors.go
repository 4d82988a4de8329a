package feedback

import "errors"

// Feedback-related errors
var (
	// Validation errors
	ErrEmptyTitle     = errors.New("feedback title cannot be empty")
	ErrTitleTooLong   = errors.New("feedback title cannot exceed 500 characters")
	ErrInvalidBoardID = errors.New("invalid board ID")
	ErrInvalidItemRef = errors.New("invalid feedback item reference")
	ErrEmptyUser      = errors.New("a user is required to vote")

	// Business logic errors
	ErrItemNotFound       = errors.New("feedback item not found")
	ErrAmbiguousItemRef   = errors.New("feedback item reference matches more than one item")
	ErrBoardNotFound      = errors.New("board not found")
	ErrColumnNotFound     = errors.New("column not found")
	ErrBoardArchived      = errors.New("board is archived")
	ErrWrongPhase         = errors.New("operation not allowed in the board's current phase (use force to override)")
	ErrWrongBoard         = errors.New("column belongs to another board")
	ErrVoteLimitReached   = errors.New("vote limit reached for this board")
	ErrNoVoteToRemove     = errors.New("you have no vote on this item")
	ErrTimerRunning       = errors.New("timer is already running")
	ErrTimerNotRunning    = errors.New("timer is not running")
	ErrSelfGroup          = errors.New("an item cannot be grouped with itself")
	ErrDifferentBoards    = errors.New("items are on different boards")
	ErrParentIsChild      = errors.New("target item is itself grouped under another item")
	ErrChildHasChildren   = errors.New("an item with grouped children cannot be grouped")
	ErrNotGrouped         = errors.New("item is not grouped")
	ErrMoveGroupedChild   = errors.New("grouped items move with their parent (ungroup first)")
	ErrDisplayIDExhausted = errors.New("could not assign a display id after retries")
)
