package cli

import (
	"errors"
	"log/slog"

	"github.com/thenoetrevino/retro/internal/export"
	"github.com/thenoetrevino/retro/internal/models"
	actionitemservice "github.com/thenoetrevino/retro/internal/services/actionitem"
	boardservice "github.com/thenoetrevino/retro/internal/services/board"
	columnservice "github.com/thenoetrevino/retro/internal/services/column"
	feedbackservice "github.com/thenoetrevino/retro/internal/services/feedback"
)

// errorClass is the machine-readable code and exit status for a family of errors
type errorClass struct {
	code       string
	exit       int
	suggestion string
}

var errorClasses = []struct {
	targets []error
	class   errorClass
}{
	{
		targets: []error{boardservice.ErrBoardNotFound, columnservice.ErrBoardNotFound, feedbackservice.ErrBoardNotFound, actionitemservice.ErrBoardNotFound},
		class:   errorClass{"BOARD_NOT_FOUND", ExitNotFound, "Use 'retro board list' to see available boards"},
	},
	{
		targets: []error{columnservice.ErrColumnNotFound, feedbackservice.ErrColumnNotFound},
		class:   errorClass{"COLUMN_NOT_FOUND", ExitNotFound, "Use 'retro column list' to see the board's columns"},
	},
	{
		targets: []error{feedbackservice.ErrItemNotFound, actionitemservice.ErrItemNotFound},
		class:   errorClass{"ITEM_NOT_FOUND", ExitNotFound, "Use 'retro item list' to see the board's cards"},
	},
	{
		targets: []error{actionitemservice.ErrActionNotFound},
		class:   errorClass{"ACTION_NOT_FOUND", ExitNotFound, "Use 'retro action list' to see the board's action items"},
	},
	{
		targets: []error{models.ErrNotFound},
		class:   errorClass{"NOT_FOUND", ExitNotFound, ""},
	},
	{
		targets: []error{boardservice.ErrBoardArchived, feedbackservice.ErrBoardArchived, actionitemservice.ErrBoardArchived},
		class:   errorClass{"BOARD_ARCHIVED", ExitValidation, "Unarchive it with 'retro board archive --undo'"},
	},
	{
		targets: []error{feedbackservice.ErrWrongPhase, boardservice.ErrPhaseOutOfOrder},
		class:   errorClass{"WRONG_PHASE", ExitValidation, "Change the phase with 'retro board phase' or pass --force"},
	},
	{
		targets: []error{feedbackservice.ErrVoteLimitReached},
		class:   errorClass{"VOTE_LIMIT", ExitValidation, "Remove a vote with 'retro item unvote' first"},
	},
	{
		targets: []error{feedbackservice.ErrAmbiguousItemRef},
		class:   errorClass{"AMBIGUOUS_REF", ExitUsage, "Use the card's #number or a longer id prefix"},
	},
	{
		targets: []error{export.ErrInvalidDocument, export.ErrUnsupportedVersion},
		class:   errorClass{"INVALID_IMPORT", ExitDataErr, ""},
	},
	{
		targets: []error{export.ErrUnknownFormat, ErrNoBoard},
		class:   errorClass{"USAGE", ExitUsage, ""},
	},
	{
		targets: []error{
			boardservice.ErrEmptyTitle, boardservice.ErrTitleTooLong, boardservice.ErrInvalidBoardID,
			boardservice.ErrInvalidMaxVotes, boardservice.ErrUnknownTemplate, boardservice.ErrNoColumns,
			boardservice.ErrPhaseUnchanged,
			columnservice.ErrEmptyTitle, columnservice.ErrTitleTooLong, columnservice.ErrInvalidColumnID,
			columnservice.ErrInvalidBoardID, columnservice.ErrInvalidColor, columnservice.ErrColumnHasItems,
			columnservice.ErrWrongBoard, columnservice.ErrLastColumn,
			feedbackservice.ErrEmptyTitle, feedbackservice.ErrTitleTooLong, feedbackservice.ErrInvalidBoardID,
			feedbackservice.ErrInvalidItemRef, feedbackservice.ErrEmptyUser, feedbackservice.ErrWrongBoard,
			feedbackservice.ErrNoVoteToRemove, feedbackservice.ErrTimerRunning, feedbackservice.ErrTimerNotRunning,
			feedbackservice.ErrSelfGroup, feedbackservice.ErrDifferentBoards, feedbackservice.ErrParentIsChild,
			feedbackservice.ErrChildHasChildren, feedbackservice.ErrNotGrouped, feedbackservice.ErrMoveGroupedChild,
			actionitemservice.ErrEmptyTitle, actionitemservice.ErrTitleTooLong, actionitemservice.ErrInvalidActionID,
		},
		class: errorClass{"VALIDATION_ERROR", ExitValidation, ""},
	},
}

func classify(err error) errorClass {
	for _, ec := range errorClasses {
		for _, target := range ec.targets {
			if errors.Is(err, target) {
				return ec.class
			}
		}
	}
	return errorClass{code: "ERROR", exit: ExitError}
}

// HandleError reports err through the formatter and returns an *ExitStatus
// carrying the exit code for its error class.
func HandleError(f *OutputFormatter, err error) error {
	if err == nil {
		return nil
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return err
	}

	class := classify(err)
	if fmtErr := f.ErrorWithSuggestion(class.code, err.Error(), class.suggestion); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return NewExitStatus(class.exit, err)
}

// UsageError reports a usage problem and returns an ExitUsage status
func UsageError(f *OutputFormatter, err error, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion("USAGE", err.Error(), suggestion); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return NewExitStatus(ExitUsage, err)
}

// ValidationError reports bad input that no service saw and returns an
// ExitValidation status
func ValidationError(f *OutputFormatter, err error) error {
	if fmtErr := f.Error("VALIDATION_ERROR", err.Error()); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
	return NewExitStatus(ExitValidation, err)
}
