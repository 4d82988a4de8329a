package column

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/models"
)

const maxTitleLength = 50

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service defines all column-related business operations
type Service interface {
	// Read operations
	ListColumns(ctx context.Context, boardID int) ([]*models.Column, error)
	GetColumn(ctx context.Context, id int) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	RenameColumn(ctx context.Context, id int, title string) error
	DeleteColumn(ctx context.Context, id int) error
}

// CreateColumnRequest encapsulates data for creating a column
type CreateColumnRequest struct {
	BoardID     int
	Title       string
	AccentColor string
	AfterID     *int // nil = append to end
}

// Store is the storage the column service needs
type Store interface {
	database.ColumnRepository
	database.BoardReader
}

type service struct {
	repo        Store
	eventClient events.EventPublisher
}

// NewService creates a new column service
func NewService(repo Store, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// ListColumns returns a board's columns in display order
func (s *service) ListColumns(ctx context.Context, boardID int) ([]*models.Column, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	if err := s.requireBoard(ctx, boardID); err != nil {
		return nil, err
	}
	columns, err := s.repo.GetColumnsByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// GetColumn retrieves a specific column
func (s *service) GetColumn(ctx context.Context, id int) (*models.Column, error) {
	if id <= 0 {
		return nil, ErrInvalidColumnID
	}
	col, err := s.repo.GetColumnByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return col, nil
}

// CreateColumn appends a column, or inserts it after AfterID
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreateColumn(req); err != nil {
		return nil, err
	}
	if err := s.requireBoard(ctx, req.BoardID); err != nil {
		return nil, err
	}

	if req.AfterID != nil {
		after, err := s.GetColumn(ctx, *req.AfterID)
		if err != nil {
			return nil, err
		}
		if after.BoardID != req.BoardID {
			return nil, ErrWrongBoard
		}
	}

	col, err := s.repo.CreateColumn(ctx, req.BoardID, req.Title, req.AccentColor, req.AfterID)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	s.publishColumnEvent(col.ID, col.BoardID)
	return col, nil
}

// RenameColumn updates a column's title
func (s *service) RenameColumn(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	if id <= 0 {
		return ErrInvalidColumnID
	}
	if err := validateTitle(title); err != nil {
		return err
	}

	col, err := s.GetColumn(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateColumnTitle(ctx, id, title); err != nil {
		return mapNotFound(err)
	}

	s.publishColumnEvent(id, col.BoardID)
	return nil
}

// DeleteColumn deletes an empty column. A board keeps at least one column.
func (s *service) DeleteColumn(ctx context.Context, id int) error {
	col, err := s.GetColumn(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountFeedbackInColumn(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check column items: %w", err)
	}
	if count > 0 {
		return ErrColumnHasItems
	}

	siblings, err := s.repo.GetColumnsByBoard(ctx, col.BoardID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}
	if len(siblings) <= 1 {
		return ErrLastColumn
	}

	if err := s.repo.DeleteColumn(ctx, id); err != nil {
		return mapNotFound(err)
	}

	s.publishColumnEvent(id, col.BoardID)
	return nil
}

func (s *service) requireBoard(ctx context.Context, boardID int) error {
	if _, err := s.repo.GetBoardByID(ctx, boardID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to get board: %w", err)
	}
	return nil
}

// publishColumnEvent publishes a column event
func (s *service) publishColumnEvent(columnID, boardID int) {
	events.PublishChange(s.eventClient, boardID, events.EntityColumn, strconv.Itoa(columnID))
}

func validateCreateColumn(req CreateColumnRequest) error {
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if req.BoardID <= 0 {
		return ErrInvalidBoardID
	}
	if req.AfterID != nil && *req.AfterID <= 0 {
		return ErrInvalidColumnID
	}
	if req.AccentColor != "" && !hexColor.MatchString(req.AccentColor) {
		return ErrInvalidColor
	}
	return nil
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

func mapNotFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrColumnNotFound
	}
	return err
}
