package actionitem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/models"
)

const maxTitleLength = 200

// Service manages the follow-ups attached to feedback items
type Service interface {
	GetActionItem(ctx context.Context, id int) (*models.ActionItem, error)
	ListByFeedback(ctx context.Context, feedbackItemID string) ([]*models.ActionItem, error)
	ListByBoard(ctx context.Context, boardID int) ([]*models.ActionItem, error)

	CreateActionItem(ctx context.Context, req CreateActionItemRequest) (*models.ActionItem, error)
	SetCompleted(ctx context.Context, id int, completed bool) error
	DeleteActionItem(ctx context.Context, id int) error
}

// CreateActionItemRequest encapsulates data for a new action item
type CreateActionItemRequest struct {
	FeedbackItemID string
	Title          string
	Assignee       string
}

// Store is the storage the action item service needs
type Store interface {
	database.ActionItemRepository
	database.FeedbackReader
	database.BoardReader
}

type service struct {
	repo        Store
	eventClient events.EventPublisher
}

// NewService creates a new action item service
func NewService(repo Store, eventClient events.EventPublisher) Service {
	return &service{repo: repo, eventClient: eventClient}
}

func (s *service) GetActionItem(ctx context.Context, id int) (*models.ActionItem, error) {
	if id <= 0 {
		return nil, ErrInvalidActionID
	}
	a, err := s.repo.GetActionItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to get action item: %w", err)
	}
	return a, nil
}

func (s *service) ListByFeedback(ctx context.Context, feedbackItemID string) ([]*models.ActionItem, error) {
	if _, err := s.getFeedback(ctx, feedbackItemID); err != nil {
		return nil, err
	}
	return s.repo.GetActionItemsByFeedback(ctx, feedbackItemID)
}

func (s *service) ListByBoard(ctx context.Context, boardID int) ([]*models.ActionItem, error) {
	if _, err := s.getBoard(ctx, boardID); err != nil {
		return nil, err
	}
	return s.repo.GetActionItemsByBoard(ctx, boardID)
}

// CreateActionItem attaches a new action item to a feedback item
func (s *service) CreateActionItem(ctx context.Context, req CreateActionItemRequest) (*models.ActionItem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	item, err := s.getFeedback(ctx, req.FeedbackItemID)
	if err != nil {
		return nil, err
	}
	board, err := s.getBoard(ctx, item.BoardID)
	if err != nil {
		return nil, err
	}
	if board.IsArchived {
		return nil, ErrBoardArchived
	}

	created, err := s.repo.CreateActionItem(ctx, &models.ActionItem{
		BoardID:        item.BoardID,
		FeedbackItemID: item.ID,
		Title:          title,
		Assignee:       strings.TrimSpace(req.Assignee),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create action item: %w", err)
	}

	s.publish(created)
	return created, nil
}

// SetCompleted marks an action item done or reopens it
func (s *service) SetCompleted(ctx context.Context, id int, completed bool) error {
	a, err := s.GetActionItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActionItemCompleted(ctx, id, completed); err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}
	s.publish(a)
	return nil
}

func (s *service) DeleteActionItem(ctx context.Context, id int) error {
	a, err := s.GetActionItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteActionItem(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrActionNotFound
		}
		return fmt.Errorf("failed to delete action item: %w", err)
	}
	s.publish(a)
	return nil
}

func (s *service) getFeedback(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := s.repo.GetFeedbackItem(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get feedback item: %w", err)
	}
	return item, nil
}

func (s *service) getBoard(ctx context.Context, id int) (*models.Board, error) {
	board, err := s.repo.GetBoardByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return board, nil
}

func (s *service) publish(a *models.ActionItem) {
	events.PublishChange(s.eventClient, a.BoardID, events.EntityActionItem, strconv.Itoa(a.ID))
}
