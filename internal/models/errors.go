package models

import "errors"

// Storage level errors shared by repositories and services
var (
	// ErrNotFound indicates the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrDisplayIDConflict indicates another item already holds the display id
	ErrDisplayIDConflict = errors.New("display id already assigned on this board")

	// ErrVoteLimitReached indicates the user has no votes left on the board
	ErrVoteLimitReached = errors.New("vote limit reached for this board")

	// ErrNoVoteToRemove indicates the user has not voted on the item
	ErrNoVoteToRemove = errors.New("no vote to remove")
)
