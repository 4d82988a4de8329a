package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/retro/internal/models"
)

// ActionItemRepo handles action items raised against feedback.
type ActionItemRepo struct {
	db *sql.DB
}

const actionItemFields = `id, board_id, feedback_item_id, title, assignee, completed, created_at`

func scanActionItem(row interface{ Scan(...any) error }) (*models.ActionItem, error) {
	a := &models.ActionItem{}
	if err := row.Scan(&a.ID, &a.BoardID, &a.FeedbackItemID, &a.Title, &a.Assignee, &a.Completed, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func actionItemsWhere(ctx context.Context, q queryer, where string, args ...any) ([]*models.ActionItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+actionItemFields+` FROM action_items WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying action items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ActionItem, 0)
	for rows.Next() {
		a, err := scanActionItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning action item row: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// CreateActionItem inserts an action item and returns it with its ID
func (r *ActionItemRepo) CreateActionItem(ctx context.Context, item *models.ActionItem) (*models.ActionItem, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO action_items (board_id, feedback_item_id, title, assignee, completed) VALUES (?, ?, ?, ?, ?)`,
		item.BoardID, item.FeedbackItemID, item.Title, item.Assignee, item.Completed,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting action item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetActionItemByID(ctx, int(id))
}

// GetActionItemByID retrieves an action item
func (r *ActionItemRepo) GetActionItemByID(ctx context.Context, id int) (*models.ActionItem, error) {
	a, err := scanActionItem(r.db.QueryRowContext(ctx,
		`SELECT `+actionItemFields+` FROM action_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("action item %d: %w", id, models.ErrNotFound)
	}
	return a, err
}

// GetActionItemsByFeedback lists the action items raised against one item
func (r *ActionItemRepo) GetActionItemsByFeedback(ctx context.Context, feedbackItemID string) ([]*models.ActionItem, error) {
	return actionItemsWhere(ctx, r.db, `feedback_item_id = ?`, feedbackItemID)
}

// GetActionItemsByBoard lists every action item on a board
func (r *ActionItemRepo) GetActionItemsByBoard(ctx context.Context, boardID int) ([]*models.ActionItem, error) {
	return actionItemsWhere(ctx, r.db, `board_id = ?`, boardID)
}

// SetActionItemCompleted marks an action item done or open
func (r *ActionItemRepo) SetActionItemCompleted(ctx context.Context, id int, completed bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE action_items SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return err
	}
	return requireAffected(result, fmt.Errorf("action item %d: %w", id, models.ErrNotFound))
}

// DeleteActionItem removes an action item
func (r *ActionItemRepo) DeleteActionItem(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM action_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, fmt.Errorf("action item %d: %w", id, models.ErrNotFound))
}
