package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/models"
)

// Writer is the storage Import writes to
type Writer interface {
	database.BoardWriter
	CreateFeedbackItem(ctx context.Context, item *models.FeedbackItem, assign database.DisplayIDFunc) error
	CreateActionItem(ctx context.Context, item *models.ActionItem) (*models.ActionItem, error)
}

// ImportOptions adjusts how a document becomes a board
type ImportOptions struct {
	Title     string        // replaces the document's board title when set
	CreatedBy string        // replaces the document's author when set
	NewID     func() string // item id generator, defaults to uuid.NewString
}

// Import creates a new board from doc. Items get fresh ids but keep their
// display ids, so "#n" references stay valid; unnumbered items stay
// unnumbered. Running timers are imported stopped. On failure the partially
// imported board is deleted.
func Import(ctx context.Context, w Writer, doc *Document, opts ImportOptions) (*models.Board, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	board := &models.Board{
		Title:           doc.Board.Title,
		CreatedBy:       doc.Board.CreatedBy,
		MaxVotesPerUser: doc.Board.MaxVotesPerUser,
		IsAnonymous:     doc.Board.IsAnonymous,
		Phase:           doc.Board.Phase,
	}
	if t := strings.TrimSpace(opts.Title); t != "" {
		board.Title = t
	}
	if opts.CreatedBy != "" {
		board.CreatedBy = opts.CreatedBy
	}
	if board.MaxVotesPerUser <= 0 {
		board.MaxVotesPerUser = 5
	}

	tcs := make([]models.TemplateColumn, len(doc.Columns))
	for i, col := range doc.Columns {
		tcs[i] = models.TemplateColumn{Title: col.Title, AccentColor: col.AccentColor}
	}

	created, columns, err := w.CreateBoard(ctx, board, tcs)
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	if err := importItems(ctx, w, doc, created, columns, opts.NewID); err != nil {
		if delErr := w.DeleteBoard(ctx, created.ID); delErr != nil {
			slog.Warn("failed to remove partially imported board", "board_id", created.ID, "error", delErr)
		}
		return nil, err
	}

	return created, nil
}

type pendingItem struct {
	column int
	doc    ItemDoc
}

func importItems(ctx context.Context, w Writer, doc *Document, board *models.Board, columns []*models.Column, newID func() string) error {
	var pending []pendingItem
	for ci, col := range doc.Columns {
		for _, item := range col.Items {
			pending = append(pending, pendingItem{column: ci, doc: item})
		}
	}

	// Parents must exist before their children. Grouping is one level deep,
	// so the second pass inserts everything the first one deferred.
	ids := make(map[string]string, len(pending))
	for len(pending) > 0 {
		var deferred []pendingItem
		for _, p := range pending {
			var parentID *string
			if p.doc.ParentID != "" {
				mapped, ok := ids[p.doc.ParentID]
				if !ok {
					deferred = append(deferred, p)
					continue
				}
				parentID = &mapped
			}

			item := &models.FeedbackItem{
				ID:               newID(),
				BoardID:          board.ID,
				ColumnID:         columns[p.column].ID,
				OriginalColumnID: columns[p.doc.OriginalColumn].ID,
				Title:            p.doc.Title,
				DisplayID:        p.doc.DisplayID,
				Upvotes:          p.doc.Upvotes,
				VoteCollection:   p.doc.Votes,
				CreatedBy:        p.doc.CreatedBy,
				TimerSecs:        p.doc.TimerSecs,
				ParentID:         parentID,
				CreatedAt:        p.doc.CreatedAt,
			}
			if board.IsAnonymous {
				item.CreatedBy = ""
			}
			if err := w.CreateFeedbackItem(ctx, item, nil); err != nil {
				return fmt.Errorf("importing item %q: %w", p.doc.Title, err)
			}
			ids[p.doc.ID] = item.ID

			for _, a := range p.doc.ActionItems {
				if _, err := w.CreateActionItem(ctx, &models.ActionItem{
					BoardID:        board.ID,
					FeedbackItemID: item.ID,
					Title:          a.Title,
					Assignee:       a.Assignee,
					Completed:      a.Completed,
				}); err != nil {
					return fmt.Errorf("importing action item %q: %w", a.Title, err)
				}
			}
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("%w: unresolvable grouping", ErrInvalidDocument)
		}
		pending = deferred
	}
	return nil
}
