package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/models"
)

const (
	maxTitleLength = 500
	createAttempts = 3
	minIDPrefix    = 4
)

// Service defines all feedback-related business operations
type Service interface {
	// Read operations
	GetFeedback(ctx context.Context, id string) (*models.FeedbackItem, error)
	ResolveFeedback(ctx context.Context, boardID int, ref string) (*models.FeedbackItem, error)
	ListFeedback(ctx context.Context, boardID int) ([]*models.FeedbackItem, error)
	Snapshot(ctx context.Context, boardID int, withPlaceholders bool) ([]*models.BoardColumn, error)

	// Write operations
	CreateFeedback(ctx context.Context, req CreateFeedbackRequest) (*models.FeedbackItem, error)
	RenameFeedback(ctx context.Context, id, title string) error
	MoveFeedback(ctx context.Context, id string, columnID int) error
	Vote(ctx context.Context, id, userID string, force bool) (int, error)
	Unvote(ctx context.Context, id, userID string, force bool) (int, error)
	StartTimer(ctx context.Context, id string) (*models.FeedbackItem, error)
	StopTimer(ctx context.Context, id string) (*models.FeedbackItem, error)
	ResetTimer(ctx context.Context, id string) (*models.FeedbackItem, error)
	Group(ctx context.Context, childID, parentID string) error
	Ungroup(ctx context.Context, childID string) error
	DeleteFeedback(ctx context.Context, id string) error
}

// CreateFeedbackRequest encapsulates data for adding a card
type CreateFeedbackRequest struct {
	BoardID   int
	ColumnID  int
	Title     string
	CreatedBy string
	Force     bool // allow outside the collect phase
}

// Store is the storage the feedback service needs
type Store interface {
	database.FeedbackRepository
	database.BoardReader
	database.ColumnReader
}

type service struct {
	repo        Store
	eventClient events.EventPublisher
	now         func() time.Time
	newID       func() string
}

// Option configures a feedback service
type Option func(*service)

// WithClock replaces time.Now, for timers
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

// NewService creates a new feedback service
func NewService(repo Store, eventClient events.EventPublisher, opts ...Option) Service {
	s := &service{
		repo:        repo,
		eventClient: eventClient,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetFeedback retrieves an item by its full id
func (s *service) GetFeedback(ctx context.Context, id string) (*models.FeedbackItem, error) {
	if id == "" || id == models.EmptyFeedbackID {
		return nil, ErrInvalidItemRef
	}
	item, err := s.repo.GetFeedbackItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get feedback item: %w", err)
	}
	return item, nil
}

// ResolveFeedback finds an item on a board by display id ("#3" or "3"),
// by full id, or by a unique id prefix of at least four characters. A bare
// number long enough to be an id prefix is tried as one first, then as a
// display id.
func (s *service) ResolveFeedback(ctx context.Context, boardID int, ref string) (*models.FeedbackItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidItemRef
	}

	items, err := s.ListFeedback(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if displayRef, ok := strings.CutPrefix(ref, "#"); ok {
		return byDisplayID(items, displayRef)
	}
	if _, err := strconv.Atoi(ref); err == nil && len(ref) < minIDPrefix {
		return byDisplayID(items, ref)
	}

	item, err := byIDPrefix(items, ref)
	if errors.Is(err, ErrItemNotFound) {
		if _, convErr := strconv.Atoi(ref); convErr == nil {
			return byDisplayID(items, ref)
		}
	}
	return item, err
}

func byDisplayID(items []*models.FeedbackItem, ref string) (*models.FeedbackItem, error) {
	n, err := strconv.Atoi(ref)
	if err != nil || n <= 0 {
		return nil, ErrInvalidItemRef
	}
	for _, item := range items {
		if item.DisplayID == n {
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

func byIDPrefix(items []*models.FeedbackItem, ref string) (*models.FeedbackItem, error) {
	var match *models.FeedbackItem
	for _, item := range items {
		if item.ID == ref {
			return item, nil
		}
		if len(ref) >= minIDPrefix && strings.HasPrefix(item.ID, ref) {
			if match != nil {
				return nil, ErrAmbiguousItemRef
			}
			match = item
		}
	}
	if match == nil {
		return nil, ErrItemNotFound
	}
	return match, nil
}

// ListFeedback returns every item on a board in creation order
func (s *service) ListFeedback(ctx context.Context, boardID int) ([]*models.FeedbackItem, error) {
	if _, err := s.getBoard(ctx, boardID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetFeedbackItemsByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}

// Snapshot returns the board's columns with their items. With placeholders,
// every empty column holds a single placeholder item.
func (s *service) Snapshot(ctx context.Context, boardID int, withPlaceholders bool) ([]*models.BoardColumn, error) {
	if _, err := s.getBoard(ctx, boardID); err != nil {
		return nil, err
	}
	columns, err := s.repo.GetBoardColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	if withPlaceholders {
		for _, col := range columns {
			if len(col.Items) == 0 {
				col.Items = append(col.Items, Placeholder(boardID, col.Properties.ID))
			}
		}
	}
	return columns, nil
}

// CreateFeedback adds a card. Its display id is chosen inside the insert
// transaction; a concurrent writer taking the same id causes a retry.
func (s *service) CreateFeedback(ctx context.Context, req CreateFeedbackRequest) (*models.FeedbackItem, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	board, err := s.getWritableBoard(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	if !req.Force && board.Phase != models.PhaseCollect {
		return nil, fmt.Errorf("%w: adding feedback needs the collect phase, board is in %s", ErrWrongPhase, board.Phase)
	}
	if err := s.requireColumn(ctx, board.ID, req.ColumnID); err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	if board.IsAnonymous {
		createdBy = ""
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		item := &models.FeedbackItem{
			ID:               s.newID(),
			BoardID:          board.ID,
			ColumnID:         req.ColumnID,
			OriginalColumnID: req.ColumnID,
			Title:            title,
			CreatedBy:        createdBy,
			CreatedAt:        s.now().UTC(),
		}

		err := s.repo.CreateFeedbackItem(ctx, item, GetNextDisplayID)
		if errors.Is(err, models.ErrDisplayIDConflict) {
			slog.Debug("display id taken, retrying", "board_id", board.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback item: %w", err)
		}

		s.publish(item.BoardID, item.ID)
		return item, nil
	}
	return nil, ErrDisplayIDExhausted
}

// RenameFeedback updates an item's title
func (s *service) RenameFeedback(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFeedbackTitle(ctx, id, title); err != nil {
		return s.mapItemError(err)
	}
	s.publish(item.BoardID, id)
	return nil
}

// MoveFeedback moves a top-level item, with its children, to another column
func (s *service) MoveFeedback(ctx context.Context, id string, columnID int) error {
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return err
	}
	if item.IsGrouped() {
		return ErrMoveGroupedChild
	}
	if err := s.requireColumn(ctx, item.BoardID, columnID); err != nil {
		return err
	}
	if item.ColumnID == columnID {
		return nil
	}
	if err := s.repo.MoveFeedbackItem(ctx, id, columnID); err != nil {
		return s.mapItemError(err)
	}
	s.publish(item.BoardID, id)
	return nil
}

// Vote casts one of userID's votes on an item and returns its new total
func (s *service) Vote(ctx context.Context, id, userID string, force bool) (int, error) {
	item, board, err := s.prepareVote(ctx, id, userID, force)
	if err != nil {
		return 0, err
	}

	upvotes, err := s.repo.AddVote(ctx, id, userID, board.MaxVotesPerUser)
	if err != nil {
		if errors.Is(err, models.ErrVoteLimitReached) {
			return 0, fmt.Errorf("%w (%d votes)", ErrVoteLimitReached, board.MaxVotesPerUser)
		}
		return 0, s.mapItemError(err)
	}
	s.publish(item.BoardID, id)
	return upvotes, nil
}

// Unvote takes back one of userID's votes on an item
func (s *service) Unvote(ctx context.Context, id, userID string, force bool) (int, error) {
	item, _, err := s.prepareVote(ctx, id, userID, force)
	if err != nil {
		return 0, err
	}

	upvotes, err := s.repo.RemoveVote(ctx, id, userID)
	if err != nil {
		if errors.Is(err, models.ErrNoVoteToRemove) {
			return 0, ErrNoVoteToRemove
		}
		return 0, s.mapItemError(err)
	}
	s.publish(item.BoardID, id)
	return upvotes, nil
}

func (s *service) prepareVote(ctx context.Context, id, userID string, force bool) (*models.FeedbackItem, *models.Board, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, ErrEmptyUser
	}
	item, err := s.GetFeedback(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	board, err := s.getWritableBoard(ctx, item.BoardID)
	if err != nil {
		return nil, nil, err
	}
	if !force && board.Phase != models.PhaseVote {
		return nil, nil, fmt.Errorf("%w: voting needs the vote phase, board is in %s", ErrWrongPhase, board.Phase)
	}
	return item, board, nil
}

// StartTimer starts the item's discussion timer
func (s *service) StartTimer(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.TimerRunning() {
		return nil, ErrTimerRunning
	}
	now := s.now().UTC()
	return s.saveTimer(ctx, item, item.TimerSecs, &now)
}

// StopTimer stops the timer, adding the elapsed wall time to the total
func (s *service) StopTimer(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.TimerRunning() {
		return nil, ErrTimerNotRunning
	}
	return s.saveTimer(ctx, item, item.ElapsedSecs(s.now()), nil)
}

// ResetTimer stops the timer and clears the accumulated time
func (s *service) ResetTimer(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveTimer(ctx, item, 0, nil)
}

func (s *service) saveTimer(ctx context.Context, item *models.FeedbackItem, secs int, startedAt *time.Time) (*models.FeedbackItem, error) {
	if err := s.repo.UpdateTimer(ctx, item.ID, secs, startedAt); err != nil {
		return nil, s.mapItemError(err)
	}
	item.TimerSecs = secs
	item.TimerStartedAt = startedAt
	s.publish(item.BoardID, item.ID)
	return item, nil
}

// Group places childID under parentID. The child joins the parent's column
// and remembers its own column for Ungroup.
func (s *service) Group(ctx context.Context, childID, parentID string) error {
	if childID == parentID {
		return ErrSelfGroup
	}
	child, err := s.getWritableItem(ctx, childID)
	if err != nil {
		return err
	}
	parent, err := s.GetFeedback(ctx, parentID)
	if err != nil {
		return err
	}
	if child.BoardID != parent.BoardID {
		return ErrDifferentBoards
	}
	if parent.IsGrouped() {
		return ErrParentIsChild
	}
	if len(child.ChildIDs) > 0 {
		return ErrChildHasChildren
	}

	if err := s.repo.SetFeedbackParent(ctx, childID, &parent.ID, parent.ColumnID); err != nil {
		return s.mapItemError(err)
	}
	s.publish(child.BoardID, childID)
	return nil
}

// Ungroup releases a child back to its original column. If that column no
// longer exists the child stays where it is.
func (s *service) Ungroup(ctx context.Context, childID string) error {
	child, err := s.getWritableItem(ctx, childID)
	if err != nil {
		return err
	}
	if !child.IsGrouped() {
		return ErrNotGrouped
	}

	target := child.OriginalColumnID
	if _, err := s.repo.GetColumnByID(ctx, target); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to get column: %w", err)
		}
		slog.Info("original column gone, ungrouping in place", "item", childID, "column_id", target)
		target = child.ColumnID
	}

	if err := s.repo.SetFeedbackParent(ctx, childID, nil, target); err != nil {
		return s.mapItemError(err)
	}
	s.publish(child.BoardID, childID)
	return nil
}

// DeleteFeedback removes an item. Its children are released in place and its
// action items are deleted with it.
func (s *service) DeleteFeedback(ctx context.Context, id string) error {
	item, err := s.getWritableItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFeedbackItem(ctx, id); err != nil {
		return s.mapItemError(err)
	}
	s.publish(item.BoardID, id)
	return nil
}

func (s *service) getBoard(ctx context.Context, boardID int) (*models.Board, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	board, err := s.repo.GetBoardByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return board, nil
}

func (s *service) getWritableBoard(ctx context.Context, boardID int) (*models.Board, error) {
	board, err := s.getBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.IsArchived {
		return nil, ErrBoardArchived
	}
	return board, nil
}

func (s *service) getWritableItem(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := s.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.getWritableBoard(ctx, item.BoardID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) requireColumn(ctx context.Context, boardID, columnID int) error {
	col, err := s.repo.GetColumnByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to get column: %w", err)
	}
	if col.BoardID != boardID {
		return ErrWrongBoard
	}
	return nil
}

func (s *service) mapItemError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

func (s *service) publish(boardID int, itemID string) {
	events.PublishChange(s.eventClient, boardID, events.EntityFeedback, itemID)
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
