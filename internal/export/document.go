// Package export converts boards to and from portable documents: JSON for
// round trips, CSV for spreadsheets and markdown for sharing notes.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/models"
)

// FormatVersion is written into every JSON document and checked on import
const FormatVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported export version")
	ErrInvalidDocument    = errors.New("invalid export document")
	ErrUnknownFormat      = errors.New("unknown export format")
)

// Format names an export encoding
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user supplied format name to a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w '%s' (must be: markdown, csv, json)", ErrUnknownFormat, s)
	}
}

// Document is the portable form of a board
type Document struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Board      BoardDoc    `json:"board"`
	Columns    []ColumnDoc `json:"columns"`
}

// BoardDoc holds the board settings
type BoardDoc struct {
	Title           string       `json:"title"`
	CreatedBy       string       `json:"created_by,omitempty"`
	MaxVotesPerUser int          `json:"max_votes_per_user"`
	IsAnonymous     bool         `json:"is_anonymous,omitempty"`
	Phase           models.Phase `json:"phase"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ColumnDoc is one column and the items it holds, in board order
type ColumnDoc struct {
	Title       string    `json:"title"`
	AccentColor string    `json:"accent_color,omitempty"`
	Items       []ItemDoc `json:"items"`
}

// ItemDoc is one feedback card. OriginalColumn indexes Columns.
type ItemDoc struct {
	ID             string         `json:"id"`
	DisplayID      int            `json:"display_id,omitempty"`
	Title          string         `json:"title"`
	CreatedBy      string         `json:"created_by,omitempty"`
	OriginalColumn int            `json:"original_column"`
	Upvotes        int            `json:"upvotes"`
	Votes          map[string]int `json:"votes,omitempty"`
	TimerSecs      int            `json:"timer_secs,omitempty"`
	ParentID       string         `json:"parent_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	ActionItems    []ActionDoc    `json:"action_items,omitempty"`
}

// ActionDoc is an action item raised against a card
type ActionDoc struct {
	Title     string `json:"title"`
	Assignee  string `json:"assignee,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// Reader is the storage Build reads from
type Reader interface {
	database.BoardReader
	GetBoardColumns(ctx context.Context, boardID int) ([]*models.BoardColumn, error)
}

// Build snapshots a board into a Document. Running timers are frozen at now.
func Build(ctx context.Context, r Reader, boardID int, now time.Time) (*Document, error) {
	board, err := r.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("loading board %d: %w", boardID, err)
	}
	columns, err := r.GetBoardColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("loading columns: %w", err)
	}

	columnIndex := make(map[int]int, len(columns))
	for i, col := range columns {
		columnIndex[col.Properties.ID] = i
	}

	doc := &Document{
		Version:    FormatVersion,
		ExportedAt: now.UTC(),
		Board: BoardDoc{
			Title:           board.Title,
			CreatedBy:       board.CreatedBy,
			MaxVotesPerUser: board.MaxVotesPerUser,
			IsAnonymous:     board.IsAnonymous,
			Phase:           board.Phase,
			CreatedAt:       board.CreatedAt,
		},
		Columns: make([]ColumnDoc, 0, len(columns)),
	}

	for i, col := range columns {
		cd := ColumnDoc{
			Title:       col.Properties.Title,
			AccentColor: col.Properties.AccentColor,
			Items:       make([]ItemDoc, 0, len(col.Items)),
		}
		for _, ci := range col.Items {
			item := ci.FeedbackItem
			if item == nil || item.IsPlaceholder() {
				continue
			}
			original, ok := columnIndex[item.OriginalColumnID]
			if !ok {
				original = i
			}
			entry := ItemDoc{
				ID:             item.ID,
				DisplayID:      item.DisplayID,
				Title:          item.Title,
				CreatedBy:      item.CreatedBy,
				OriginalColumn: original,
				Upvotes:        item.Upvotes,
				TimerSecs:      item.ElapsedSecs(now),
				CreatedAt:      item.CreatedAt,
			}
			if len(item.VoteCollection) > 0 {
				entry.Votes = make(map[string]int, len(item.VoteCollection))
				for user, n := range item.VoteCollection {
					entry.Votes[user] = n
				}
			}
			if item.ParentID != nil {
				entry.ParentID = *item.ParentID
			}
			for _, a := range ci.ActionItems {
				entry.ActionItems = append(entry.ActionItems, ActionDoc{
					Title:     a.Title,
					Assignee:  a.Assignee,
					Completed: a.Completed,
				})
			}
			cd.Items = append(cd.Items, entry)
		}
		doc.Columns = append(doc.Columns, cd)
	}

	return doc, nil
}

// Validate checks the structural rules Import relies on
func (d *Document) Validate() error {
	if d.Version != FormatVersion {
		return fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, d.Version, FormatVersion)
	}
	if strings.TrimSpace(d.Board.Title) == "" {
		return fmt.Errorf("%w: board title is empty", ErrInvalidDocument)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: board has no columns", ErrInvalidDocument)
	}
	if d.Board.Phase != "" && d.Board.Phase.Index() < 0 {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidDocument, d.Board.Phase)
	}

	ids := make(map[string]*ItemDoc)
	displayIDs := make(map[int]string)
	for ci := range d.Columns {
		for ii := range d.Columns[ci].Items {
			item := &d.Columns[ci].Items[ii]
			if item.ID == "" || item.ID == models.EmptyFeedbackID {
				return fmt.Errorf("%w: item %q has an invalid id", ErrInvalidDocument, item.Title)
			}
			if _, dup := ids[item.ID]; dup {
				return fmt.Errorf("%w: duplicate item id %s", ErrInvalidDocument, item.ID)
			}
			ids[item.ID] = item
			if item.DisplayID > 0 {
				if other, dup := displayIDs[item.DisplayID]; dup {
					return fmt.Errorf("%w: display id %d used by %s and %s", ErrInvalidDocument, item.DisplayID, other, item.ID)
				}
				displayIDs[item.DisplayID] = item.ID
			}
			if item.OriginalColumn < 0 || item.OriginalColumn >= len(d.Columns) {
				return fmt.Errorf("%w: item %s references column %d", ErrInvalidDocument, item.ID, item.OriginalColumn)
			}
		}
	}

	for _, item := range ids {
		if item.ParentID == "" {
			continue
		}
		parent, ok := ids[item.ParentID]
		if !ok {
			return fmt.Errorf("%w: item %s groups under missing item %s", ErrInvalidDocument, item.ID, item.ParentID)
		}
		if parent.ParentID != "" {
			return fmt.Errorf("%w: item %s groups under another grouped item", ErrInvalidDocument, item.ID)
		}
	}
	return nil
}
