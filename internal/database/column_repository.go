package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/retro/internal/models"
)

// ColumnRepo handles all column-related database operations.
type ColumnRepo struct {
	db *sql.DB
}

const columnFields = `id, board_id, title, accent_color, prev_id, next_id`

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	col := &models.Column{}
	var prevID, nextID sql.NullInt64
	if err := row.Scan(&col.ID, &col.BoardID, &col.Title, &col.AccentColor, &prevID, &nextID); err != nil {
		return nil, err
	}
	col.PrevID = nullInt64ToPtr(prevID)
	col.NextID = nullInt64ToPtr(nextID)
	return col, nil
}

// CreateColumn creates a new column on a board.
// If afterColumnID is nil, the column is appended to the end of the board's list.
// Otherwise, it's inserted after the specified column
func (r *ColumnRepo) CreateColumn(ctx context.Context, boardID int, title, accentColor string, afterColumnID *int) (*models.Column, error) {
	var created *models.Column
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		created, err = insertColumn(ctx, tx, boardID, title, accentColor, afterColumnID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// insertColumn links a new column into the board's list. Must run inside a transaction.
func insertColumn(ctx context.Context, q queryer, boardID int, title, accentColor string, afterColumnID *int) (*models.Column, error) {
	var prevID, nextID *int

	if afterColumnID == nil {
		// Append to end: find tail (column where next_id IS NULL) for this board
		var tailID sql.NullInt64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM columns WHERE next_id IS NULL AND board_id = ? LIMIT 1`, boardID,
		).Scan(&tailID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("finding tail column: %w", err)
		}
		prevID = nullInt64ToPtr(tailID)
	} else {
		// Insert after specified column, which must belong to the same board
		var afterBoardID int
		var currentNextID sql.NullInt64
		err := q.QueryRowContext(ctx,
			`SELECT board_id, next_id FROM columns WHERE id = ?`, *afterColumnID,
		).Scan(&afterBoardID, &currentNextID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && afterBoardID != boardID) {
			return nil, fmt.Errorf("column %d: %w", *afterColumnID, models.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		prevID = afterColumnID
		nextID = nullInt64ToPtr(currentNextID)
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO columns (board_id, title, accent_color, prev_id, next_id) VALUES (?, ?, ?, ?, ?)`,
		boardID, title, accentColor, prevID, nextID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting column: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	newIDInt := int(newID)

	// Update the previous column's next_id to point to the new column
	if prevID != nil {
		if _, err := q.ExecContext(ctx, `UPDATE columns SET next_id = ? WHERE id = ?`, newIDInt, *prevID); err != nil {
			return nil, err
		}
	}

	// Update the next column's prev_id to point to the new column
	if nextID != nil {
		if _, err := q.ExecContext(ctx, `UPDATE columns SET prev_id = ? WHERE id = ?`, newIDInt, *nextID); err != nil {
			return nil, err
		}
	}

	return &models.Column{
		ID:          newIDInt,
		BoardID:     boardID,
		Title:       title,
		AccentColor: accentColor,
		PrevID:      prevID,
		NextID:      nextID,
	}, nil
}

// GetColumnsByBoard retrieves all columns for a board by traversing the linked list.
// Returns columns in order from head to tail
func (r *ColumnRepo) GetColumnsByBoard(ctx context.Context, boardID int) ([]*models.Column, error) {
	return columnsByBoard(ctx, r.db, boardID)
}

func columnsByBoard(ctx context.Context, q queryer, boardID int) ([]*models.Column, error) {
	// Fetch ALL columns for the board in a single query
	rows, err := q.QueryContext(ctx,
		`SELECT `+columnFields+` FROM columns WHERE board_id = ?`, boardID)
	if err != nil {
		return nil, fmt.Errorf("querying columns for board: %w", err)
	}
	defer rows.Close()

	// Build a map for O(1) lookups and find the head
	columnMap := make(map[int]*models.Column)
	var headID *int

	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		if col.PrevID == nil {
			id := col.ID
			headID = &id
		}
		columnMap[col.ID] = col
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}

	if len(columnMap) == 0 {
		return []*models.Column{}, nil
	}

	if headID == nil {
		return nil, fmt.Errorf("no head column found for board %d (linked list broken)", boardID)
	}

	// Traverse the linked list in memory using the map
	columns := make([]*models.Column, 0, len(columnMap))
	currentID := *headID

	for {
		col, exists := columnMap[currentID]
		if !exists {
			return nil, fmt.Errorf("column %d not found in map (linked list broken)", currentID)
		}
		if len(columns) == len(columnMap) {
			return nil, fmt.Errorf("cycle detected at column %d (linked list broken)", currentID)
		}

		columns = append(columns, col)

		if col.NextID == nil {
			break
		}
		currentID = *col.NextID
	}

	return columns, nil
}

// GetColumnByID retrieves a column by its ID
func (r *ColumnRepo) GetColumnByID(ctx context.Context, columnID int) (*models.Column, error) {
	col, err := scanColumn(r.db.QueryRowContext(ctx,
		`SELECT `+columnFields+` FROM columns WHERE id = ?`, columnID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("column %d: %w", columnID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return col, nil
}

// CountFeedbackInColumn returns how many feedback items currently sit in a column
func (r *ColumnRepo) CountFeedbackInColumn(ctx context.Context, columnID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feedback_items WHERE column_id = ?`, columnID,
	).Scan(&count)
	return count, err
}

// UpdateColumnTitle updates the title of an existing column
func (r *ColumnRepo) UpdateColumnTitle(ctx context.Context, columnID int, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE columns SET title = ? WHERE id = ?`,
		title, columnID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, fmt.Errorf("column %d: %w", columnID, models.ErrNotFound))
}

// DeleteColumn removes a column from the database.
// This operation maintains the linked list structure by updating adjacent columns
func (r *ColumnRepo) DeleteColumn(ctx context.Context, columnID int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var prevID, nextID sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT prev_id, next_id FROM columns WHERE id = ?`, columnID,
		).Scan(&prevID, &nextID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("column %d: %w", columnID, models.ErrNotFound)
		}
		if err != nil {
			return err
		}

		// Unlink first so the neighbours point past the deleted column
		if prevID.Valid {
			if _, err := tx.ExecContext(ctx, `UPDATE columns SET next_id = ? WHERE id = ?`,
				nullInt64ToPtr(nextID), prevID.Int64); err != nil {
				return err
			}
		}
		if nextID.Valid {
			if _, err := tx.ExecContext(ctx, `UPDATE columns SET prev_id = ? WHERE id = ?`,
				nullInt64ToPtr(prevID), nextID.Int64); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM columns WHERE id = ?", columnID)
		return err
	})
}
