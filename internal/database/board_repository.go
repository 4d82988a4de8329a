package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/retro/internal/models"
)

// BoardRepo handles all board-related database operations.
type BoardRepo struct {
	db *sql.DB
}

const boardFields = `id, title, created_by, max_votes_per_user, is_anonymous, phase, is_archived, created_at, updated_at`

func scanBoard(row interface{ Scan(...any) error }) (*models.Board, error) {
	b := &models.Board{}
	var phase string
	if err := row.Scan(&b.ID, &b.Title, &b.CreatedBy, &b.MaxVotesPerUser, &b.IsAnonymous,
		&phase, &b.IsArchived, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Phase = models.Phase(phase)
	return b, nil
}

// CreateBoard inserts a board and its initial columns in one transaction
func (r *BoardRepo) CreateBoard(ctx context.Context, board *models.Board, columns []models.TemplateColumn) (*models.Board, []*models.Column, error) {
	var created *models.Board
	createdColumns := make([]*models.Column, 0, len(columns))

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		phase := board.Phase
		if phase == "" {
			phase = models.PhaseCollect
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO boards (title, created_by, max_votes_per_user, is_anonymous, phase)
			 VALUES (?, ?, ?, ?, ?)`,
			board.Title, board.CreatedBy, board.MaxVotesPerUser, board.IsAnonymous, string(phase),
		)
		if err != nil {
			return fmt.Errorf("inserting board: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		for _, tc := range columns {
			col, err := insertColumn(ctx, tx, int(id), tc.Title, tc.AccentColor, nil)
			if err != nil {
				return err
			}
			createdColumns = append(createdColumns, col)
		}

		created, err = scanBoard(tx.QueryRowContext(ctx,
			`SELECT `+boardFields+` FROM boards WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return created, createdColumns, nil
}

// GetBoardByID retrieves a board by its ID
func (r *BoardRepo) GetBoardByID(ctx context.Context, id int) (*models.Board, error) {
	b, err := scanBoard(r.db.QueryRowContext(ctx,
		`SELECT `+boardFields+` FROM boards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetAllBoards lists boards, newest first
func (r *BoardRepo) GetAllBoards(ctx context.Context, includeArchived bool) ([]*models.Board, error) {
	query := `SELECT ` + boardFields + ` FROM boards`
	if !includeArchived {
		query += ` WHERE is_archived = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	boards := make([]*models.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		boards = append(boards, b)
	}

	return boards, rows.Err()
}

// UpdateBoardTitle renames a board
func (r *BoardRepo) UpdateBoardTitle(ctx context.Context, id int, title string) error {
	return r.update(ctx, id, `UPDATE boards SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, title, id)
}

// UpdateBoardPhase moves a board to another phase
func (r *BoardRepo) UpdateBoardPhase(ctx context.Context, id int, phase models.Phase) error {
	return r.update(ctx, id, `UPDATE boards SET phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(phase), id)
}

// SetBoardArchived archives or restores a board
func (r *BoardRepo) SetBoardArchived(ctx context.Context, id int, archived bool) error {
	return r.update(ctx, id, `UPDATE boards SET is_archived = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, archived, id)
}

// DeleteBoard removes a board; columns, feedback, votes and action items cascade
func (r *BoardRepo) DeleteBoard(ctx context.Context, id int) error {
	return r.update(ctx, id, `DELETE FROM boards WHERE id = ?`, id)
}

func (r *BoardRepo) update(ctx context.Context, id int, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result, fmt.Errorf("board %d: %w", id, models.ErrNotFound))
}
