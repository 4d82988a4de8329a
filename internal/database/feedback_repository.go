package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/retro/internal/models"
)

// FeedbackRepo handles feedback items and their votes.
type FeedbackRepo struct {
	db *sql.DB
}

const feedbackFields = `id, board_id, column_id, original_column_id, title, display_id, upvotes,
	created_by, timer_secs, timer_started_at, parent_id, created_at, updated_at`

func scanFeedback(row interface{ Scan(...any) error }) (*models.FeedbackItem, error) {
	item := &models.FeedbackItem{}
	var displayID sql.NullInt64
	var startedAt sql.NullTime
	var parentID sql.NullString
	if err := row.Scan(&item.ID, &item.BoardID, &item.ColumnID, &item.OriginalColumnID, &item.Title,
		&displayID, &item.Upvotes, &item.CreatedBy, &item.TimerSecs, &startedAt, &parentID,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if displayID.Valid {
		item.DisplayID = int(displayID.Int64)
	}
	item.TimerStartedAt = nullTimeToPtr(startedAt)
	item.ParentID = nullStringToPtr(parentID)
	item.VoteCollection = map[string]int{}
	return item, nil
}

func itemNotFound(id string) error {
	return fmt.Errorf("feedback item %s: %w", id, models.ErrNotFound)
}

// CreateFeedbackItem inserts item. When assign is non-nil it is called with
// the board's columns inside the transaction and its result becomes the
// item's display id; otherwise item.DisplayID is stored as given.
func (r *FeedbackRepo) CreateFeedbackItem(ctx context.Context, item *models.FeedbackItem, assign DisplayIDFunc) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if assign != nil {
			columns, err := boardColumns(ctx, tx, item.BoardID)
			if err != nil {
				return err
			}
			item.DisplayID = assign(models.ColumnMap(columns))
		}

		now := time.Now().UTC()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now

		_, err := tx.ExecContext(ctx,
			`INSERT INTO feedback_items (id, board_id, column_id, original_column_id, title, display_id,
				upvotes, created_by, timer_secs, timer_started_at, parent_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.BoardID, item.ColumnID, item.OriginalColumnID, item.Title,
			positiveOrNull(item.DisplayID), item.Upvotes, item.CreatedBy, item.TimerSecs,
			item.TimerStartedAt, item.ParentID, item.CreatedAt, item.UpdatedAt,
		)
		if isUniqueViolation(err, "display_id") {
			return models.ErrDisplayIDConflict
		}
		if err != nil {
			return fmt.Errorf("inserting feedback item: %w", err)
		}

		for user, votes := range item.VoteCollection {
			if votes <= 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO feedback_votes (item_id, board_id, user_id, votes) VALUES (?, ?, ?, ?)`,
				item.ID, item.BoardID, user, votes,
			); err != nil {
				return fmt.Errorf("inserting votes: %w", err)
			}
		}
		return nil
	})
}

// GetFeedbackItem retrieves one item with its votes and child ids
func (r *FeedbackRepo) GetFeedbackItem(ctx context.Context, id string) (*models.FeedbackItem, error) {
	item, err := scanFeedback(r.db.QueryRowContext(ctx,
		`SELECT `+feedbackFields+` FROM feedback_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, itemNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, votes FROM feedback_votes WHERE item_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	for rows.Next() {
		var user string
		var votes int
		if err := rows.Scan(&user, &votes); err != nil {
			rows.Close()
			return nil, err
		}
		item.VoteCollection[user] = votes
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	childRows, err := r.db.QueryContext(ctx,
		`SELECT id FROM feedback_items WHERE parent_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying children: %w", err)
	}
	defer childRows.Close()
	for childRows.Next() {
		var childID string
		if err := childRows.Scan(&childID); err != nil {
			return nil, err
		}
		item.ChildIDs = append(item.ChildIDs, childID)
	}

	return item, childRows.Err()
}

// GetFeedbackItemsByBoard returns every item on a board in creation order,
// with votes and child ids filled in.
func (r *FeedbackRepo) GetFeedbackItemsByBoard(ctx context.Context, boardID int) ([]*models.FeedbackItem, error) {
	return feedbackByBoard(ctx, r.db, boardID)
}

func feedbackByBoard(ctx context.Context, q queryer, boardID int) ([]*models.FeedbackItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+feedbackFields+` FROM feedback_items WHERE board_id = ? ORDER BY rowid`, boardID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback items: %w", err)
	}

	items := make([]*models.FeedbackItem, 0)
	byID := make(map[string]*models.FeedbackItem)
	for rows.Next() {
		item, err := scanFeedback(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.ParentID == nil {
			continue
		}
		if parent, ok := byID[*item.ParentID]; ok {
			parent.ChildIDs = append(parent.ChildIDs, item.ID)
		}
	}

	voteRows, err := q.QueryContext(ctx,
		`SELECT item_id, user_id, votes FROM feedback_votes WHERE board_id = ?`, boardID)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer voteRows.Close()
	for voteRows.Next() {
		var itemID, user string
		var votes int
		if err := voteRows.Scan(&itemID, &user, &votes); err != nil {
			return nil, err
		}
		if item, ok := byID[itemID]; ok {
			item.VoteCollection[user] = votes
		}
	}

	return items, voteRows.Err()
}

// GetBoardColumns returns the board's columns in order, each holding its items
// and their action items.
func (r *FeedbackRepo) GetBoardColumns(ctx context.Context, boardID int) ([]*models.BoardColumn, error) {
	return boardColumns(ctx, r.db, boardID)
}

func boardColumns(ctx context.Context, q queryer, boardID int) ([]*models.BoardColumn, error) {
	columns, err := columnsByBoard(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	items, err := feedbackByBoard(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	actions, err := actionItemsWhere(ctx, q, `board_id = ?`, boardID)
	if err != nil {
		return nil, err
	}

	actionsByItem := make(map[string][]*models.ActionItem)
	for _, a := range actions {
		actionsByItem[a.FeedbackItemID] = append(actionsByItem[a.FeedbackItemID], a)
	}

	result := make([]*models.BoardColumn, len(columns))
	byColumn := make(map[int]*models.BoardColumn, len(columns))
	for i, col := range columns {
		result[i] = &models.BoardColumn{Properties: col, Items: []*models.ColumnItem{}}
		byColumn[col.ID] = result[i]
	}
	for _, item := range items {
		bc, ok := byColumn[item.ColumnID]
		if !ok {
			continue
		}
		bc.Items = append(bc.Items, &models.ColumnItem{
			FeedbackItem: item,
			ActionItems:  actionsByItem[item.ID],
		})
	}

	return result, nil
}

// GetUserVotesOnBoard returns the total votes a user has cast on a board
func (r *FeedbackRepo) GetUserVotesOnBoard(ctx context.Context, boardID int, userID string) (int, error) {
	return userVotesOnBoard(ctx, r.db, boardID, userID)
}

func userVotesOnBoard(ctx context.Context, q queryer, boardID int, userID string) (int, error) {
	var total int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(votes), 0) FROM feedback_votes WHERE board_id = ? AND user_id = ?`,
		boardID, userID,
	).Scan(&total)
	return total, err
}

// UpdateFeedbackTitle updates an item's title
func (r *FeedbackRepo) UpdateFeedbackTitle(ctx context.Context, id, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feedback_items SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, itemNotFound(id))
}

// MoveFeedbackItem moves an item and every item grouped under it to columnID.
// The item's original column follows it; its children keep theirs.
func (r *FeedbackRepo) MoveFeedbackItem(ctx context.Context, id string, columnID int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE feedback_items SET column_id = ?, original_column_id = ?, updated_at = ? WHERE id = ?`,
			columnID, columnID, now, id,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(result, itemNotFound(id)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE feedback_items SET column_id = ?, updated_at = ? WHERE parent_id = ?`,
			columnID, now, id,
		)
		return err
	})
}

// SetFeedbackParent groups childID under parentID (or ungroups it when
// parentID is nil) and places it in columnID.
func (r *FeedbackRepo) SetFeedbackParent(ctx context.Context, childID string, parentID *string, columnID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feedback_items SET parent_id = ?, column_id = ?, updated_at = ? WHERE id = ?`,
		parentID, columnID, time.Now().UTC(), childID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, itemNotFound(childID))
}

// AddVote records one vote by userID on an item, enforcing the per-user
// budget across the item's board. Returns the item's new upvote count.
func (r *FeedbackRepo) AddVote(ctx context.Context, itemID, userID string, maxPerUser int) (int, error) {
	var upvotes int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID int
		err := tx.QueryRowContext(ctx, `SELECT board_id FROM feedback_items WHERE id = ?`, itemID).Scan(&boardID)
		if errors.Is(err, sql.ErrNoRows) {
			return itemNotFound(itemID)
		}
		if err != nil {
			return err
		}

		used, err := userVotesOnBoard(ctx, tx, boardID, userID)
		if err != nil {
			return err
		}
		if maxPerUser > 0 && used >= maxPerUser {
			return models.ErrVoteLimitReached
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO feedback_votes (item_id, board_id, user_id, votes) VALUES (?, ?, ?, 1)
			 ON CONFLICT(item_id, user_id) DO UPDATE SET votes = votes + 1`,
			itemID, boardID, userID,
		); err != nil {
			return fmt.Errorf("recording vote: %w", err)
		}

		return tx.QueryRowContext(ctx,
			`UPDATE feedback_items SET upvotes = upvotes + 1 WHERE id = ? RETURNING upvotes`, itemID,
		).Scan(&upvotes)
	})
	return upvotes, err
}

// RemoveVote withdraws one of userID's votes from an item. Returns the item's
// new upvote count.
func (r *FeedbackRepo) RemoveVote(ctx context.Context, itemID, userID string) (int, error) {
	var upvotes int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM feedback_items WHERE id = ?`, itemID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return itemNotFound(itemID)
		}
		if err != nil {
			return err
		}

		var votes int
		err = tx.QueryRowContext(ctx,
			`SELECT votes FROM feedback_votes WHERE item_id = ? AND user_id = ?`, itemID, userID,
		).Scan(&votes)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && votes <= 0) {
			return models.ErrNoVoteToRemove
		}
		if err != nil {
			return err
		}

		if votes == 1 {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM feedback_votes WHERE item_id = ? AND user_id = ?`, itemID, userID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE feedback_votes SET votes = votes - 1 WHERE item_id = ? AND user_id = ?`, itemID, userID)
		}
		if err != nil {
			return fmt.Errorf("removing vote: %w", err)
		}

		return tx.QueryRowContext(ctx,
			`UPDATE feedback_items SET upvotes = MAX(upvotes - 1, 0) WHERE id = ? RETURNING upvotes`, itemID,
		).Scan(&upvotes)
	})
	return upvotes, err
}

// UpdateTimer stores the accumulated timer seconds and the running start time
func (r *FeedbackRepo) UpdateTimer(ctx context.Context, id string, secs int, startedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feedback_items SET timer_secs = ?, timer_started_at = ?, updated_at = ? WHERE id = ?`,
		secs, startedAt, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, itemNotFound(id))
}

// DeleteFeedbackItem removes an item. Grouped children are released in place;
// votes and action items cascade.
func (r *FeedbackRepo) DeleteFeedbackItem(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedback_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, itemNotFound(id))
}
