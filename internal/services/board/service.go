package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/retro/internal/cache"
	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/models"
)

const (
	maxTitleLength  = 100
	maxVotesCeiling = 100
)

// Service defines all board-related business operations
type Service interface {
	// Read operations
	GetBoard(ctx context.Context, id int) (*models.Board, error)
	ListBoards(ctx context.Context, includeArchived bool) ([]*models.Board, error)

	// Write operations
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, []*models.Column, error)
	RenameBoard(ctx context.Context, id int, title string) error
	SetPhase(ctx context.Context, id int, phase models.Phase, force bool) (*models.Board, error)
	ArchiveBoard(ctx context.Context, id int, archived bool) error
	DeleteBoard(ctx context.Context, id int) error
}

// CreateBoardRequest encapsulates data for creating a board.
// Columns, when set, replace the template's columns.
type CreateBoardRequest struct {
	Title           string
	CreatedBy       string
	Template        string
	Columns         []string
	MaxVotesPerUser int // 0 = service default
	IsAnonymous     bool
}

// Defaults are applied to new boards when the request leaves a field empty
type Defaults struct {
	MaxVotesPerUser int
	Template        string
}

type service struct {
	repo        database.BoardRepository
	eventClient events.EventPublisher
	defaults    Defaults
	boards      *cache.Cache[models.Board]
}

// NewService creates a new board service
func NewService(repo database.BoardRepository, eventClient events.EventPublisher, defaults Defaults) Service {
	if defaults.MaxVotesPerUser <= 0 {
		defaults.MaxVotesPerUser = 5
	}
	if defaults.Template == "" {
		defaults.Template = models.DefaultTemplateKey
	}
	return &service{
		repo:        repo,
		eventClient: eventClient,
		defaults:    defaults,
		boards:      cache.New[models.Board]("boards", cache.DefaultExpiration, cache.DefaultCleanupInterval),
	}
}

// GetBoard retrieves a board, served from cache when possible
func (s *service) GetBoard(ctx context.Context, id int) (*models.Board, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}
	if b, ok := s.boards.Get(id); ok {
		return &b, nil
	}

	b, err := s.repo.GetBoardByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	s.boards.Set(id, *b)
	return b, nil
}

// ListBoards returns boards newest first
func (s *service) ListBoards(ctx context.Context, includeArchived bool) ([]*models.Board, error) {
	boards, err := s.repo.GetAllBoards(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// CreateBoard creates a board and its columns in one transaction
func (s *service) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, []*models.Column, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, nil, err
	}

	maxVotes := req.MaxVotesPerUser
	if maxVotes == 0 {
		maxVotes = s.defaults.MaxVotesPerUser
	}
	if maxVotes < 1 || maxVotes > maxVotesCeiling {
		return nil, nil, ErrInvalidMaxVotes
	}

	columns, err := s.resolveColumns(req)
	if err != nil {
		return nil, nil, err
	}

	board, cols, err := s.repo.CreateBoard(ctx, &models.Board{
		Title:           title,
		CreatedBy:       req.CreatedBy,
		MaxVotesPerUser: maxVotes,
		IsAnonymous:     req.IsAnonymous,
		Phase:           models.PhaseCollect,
	}, columns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create board: %w", err)
	}

	events.PublishChange(s.eventClient, board.ID, events.EntityBoard, fmt.Sprint(board.ID))
	return board, cols, nil
}

// resolveColumns picks explicit columns over the template
func (s *service) resolveColumns(req CreateBoardRequest) ([]models.TemplateColumn, error) {
	if len(req.Columns) > 0 {
		cols := make([]models.TemplateColumn, 0, len(req.Columns))
		for _, title := range req.Columns {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			cols = append(cols, models.TemplateColumn{Title: title})
		}
		if len(cols) == 0 {
			return nil, ErrNoColumns
		}
		return cols, nil
	}

	key := req.Template
	if key == "" {
		key = s.defaults.Template
	}
	tmpl, err := models.TemplateByKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}
	return tmpl.Columns, nil
}

// RenameBoard updates a board's title
func (s *service) RenameBoard(ctx context.Context, id int, title string) error {
	if id <= 0 {
		return ErrInvalidBoardID
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	board, err := s.GetBoard(ctx, id)
	if err != nil {
		return err
	}
	if board.IsArchived {
		return ErrBoardArchived
	}

	if err := s.repo.UpdateBoardTitle(ctx, id, title); err != nil {
		return s.mapWriteError("rename board", err)
	}
	s.boards.Delete(id)

	events.PublishChange(s.eventClient, id, events.EntityBoard, fmt.Sprint(id))
	return nil
}

// SetPhase moves a board to another phase. Without force the board may
// only advance to the phase directly after its current one.
func (s *service) SetPhase(ctx context.Context, id int, phase models.Phase, force bool) (*models.Board, error) {
	if phase.Index() < 0 {
		return nil, fmt.Errorf("invalid phase '%s'", phase)
	}

	board, err := s.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.IsArchived {
		return nil, ErrBoardArchived
	}
	if board.Phase == phase {
		return nil, ErrPhaseUnchanged
	}
	if !force {
		if next, ok := board.Phase.Next(); !ok || next != phase {
			return nil, ErrPhaseOutOfOrder
		}
	}

	if err := s.repo.UpdateBoardPhase(ctx, id, phase); err != nil {
		return nil, s.mapWriteError("set phase", err)
	}
	s.boards.Delete(id)
	board.Phase = phase

	events.PublishChange(s.eventClient, id, events.EntityBoard, fmt.Sprint(id))
	return board, nil
}

// ArchiveBoard archives or restores a board
func (s *service) ArchiveBoard(ctx context.Context, id int, archived bool) error {
	if id <= 0 {
		return ErrInvalidBoardID
	}
	if err := s.repo.SetBoardArchived(ctx, id, archived); err != nil {
		return s.mapWriteError("archive board", err)
	}
	s.boards.Delete(id)

	events.PublishChange(s.eventClient, id, events.EntityBoard, fmt.Sprint(id))
	return nil
}

// DeleteBoard removes a board with all its columns, items and action items
func (s *service) DeleteBoard(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidBoardID
	}
	if err := s.repo.DeleteBoard(ctx, id); err != nil {
		return s.mapWriteError("delete board", err)
	}
	s.boards.Delete(id)

	events.PublishChange(s.eventClient, id, events.EntityBoard, fmt.Sprint(id))
	return nil
}

func (s *service) mapWriteError(op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrBoardNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
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
