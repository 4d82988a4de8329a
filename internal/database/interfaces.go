package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/retro/internal/models"
)

// DisplayIDFunc chooses the display id for a new item given the board's
// current columns. It runs inside the insert transaction.
type DisplayIDFunc func(columns map[int]*models.BoardColumn) int

// BoardReader defines read operations for boards.
type BoardReader interface {
	GetBoardByID(ctx context.Context, id int) (*models.Board, error)
	GetAllBoards(ctx context.Context, includeArchived bool) ([]*models.Board, error)
}

// BoardWriter defines write operations for boards.
type BoardWriter interface {
	CreateBoard(ctx context.Context, board *models.Board, columns []models.TemplateColumn) (*models.Board, []*models.Column, error)
	UpdateBoardTitle(ctx context.Context, id int, title string) error
	UpdateBoardPhase(ctx context.Context, id int, phase models.Phase) error
	SetBoardArchived(ctx context.Context, id int, archived bool) error
	DeleteBoard(ctx context.Context, id int) error
}

// BoardRepository combines all board-related operations.
type BoardRepository interface {
	BoardReader
	BoardWriter
}

// ColumnReader defines read operations for columns.
type ColumnReader interface {
	GetColumnsByBoard(ctx context.Context, boardID int) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, id int) (*models.Column, error)
	CountFeedbackInColumn(ctx context.Context, columnID int) (int, error)
}

// ColumnWriter defines write operations for columns.
type ColumnWriter interface {
	CreateColumn(ctx context.Context, boardID int, title, accentColor string, afterID *int) (*models.Column, error)
	UpdateColumnTitle(ctx context.Context, id int, title string) error
	DeleteColumn(ctx context.Context, id int) error
}

// ColumnRepository combines all column-related operations.
type ColumnRepository interface {
	ColumnReader
	ColumnWriter
}

// FeedbackReader defines read operations for feedback items.
type FeedbackReader interface {
	GetFeedbackItem(ctx context.Context, id string) (*models.FeedbackItem, error)
	GetFeedbackItemsByBoard(ctx context.Context, boardID int) ([]*models.FeedbackItem, error)
	GetBoardColumns(ctx context.Context, boardID int) ([]*models.BoardColumn, error)
	GetUserVotesOnBoard(ctx context.Context, boardID int, userID string) (int, error)
}

// FeedbackWriter defines write operations for feedback items.
type FeedbackWriter interface {
	CreateFeedbackItem(ctx context.Context, item *models.FeedbackItem, assign DisplayIDFunc) error
	UpdateFeedbackTitle(ctx context.Context, id, title string) error
	MoveFeedbackItem(ctx context.Context, id string, columnID int) error
	SetFeedbackParent(ctx context.Context, childID string, parentID *string, columnID int) error
	AddVote(ctx context.Context, itemID, userID string, maxPerUser int) (int, error)
	RemoveVote(ctx context.Context, itemID, userID string) (int, error)
	UpdateTimer(ctx context.Context, id string, secs int, startedAt *time.Time) error
	DeleteFeedbackItem(ctx context.Context, id string) error
}

// FeedbackRepository combines all feedback-related operations.
type FeedbackRepository interface {
	FeedbackReader
	FeedbackWriter
}

// ActionItemReader defines read operations for action items.
type ActionItemReader interface {
	GetActionItemByID(ctx context.Context, id int) (*models.ActionItem, error)
	GetActionItemsByFeedback(ctx context.Context, feedbackItemID string) ([]*models.ActionItem, error)
	GetActionItemsByBoard(ctx context.Context, boardID int) ([]*models.ActionItem, error)
}

// ActionItemWriter defines write operations for action items.
type ActionItemWriter interface {
	CreateActionItem(ctx context.Context, item *models.ActionItem) (*models.ActionItem, error)
	SetActionItemCompleted(ctx context.Context, id int, completed bool) error
	DeleteActionItem(ctx context.Context, id int) error
}

// ActionItemRepository combines all action-item operations.
type ActionItemRepository interface {
	ActionItemReader
	ActionItemWriter
}
