package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/retro/internal/models"
)

// setupTestDB creates a migrated in-memory database
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory(context.Background())
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestBoard creates a board with the given column titles
func createTestBoard(t *testing.T, repo *Repository, columns ...string) (*models.Board, []*models.Column) {
	t.Helper()
	tcs := make([]models.TemplateColumn, len(columns))
	for i, title := range columns {
		tcs[i] = models.TemplateColumn{Title: title}
	}
	board, cols, err := repo.CreateBoard(context.Background(), &models.Board{
		Title:           "Sprint 42",
		CreatedBy:       "ana",
		MaxVotesPerUser: 3,
	}, tcs)
	require.NoError(t, err)
	return board, cols
}

// createTestItem inserts an item with an explicit display id (0 = unnumbered)
func createTestItem(t *testing.T, repo *Repository, boardID, columnID int, id string, displayID int) *models.FeedbackItem {
	t.Helper()
	item := &models.FeedbackItem{
		ID:               id,
		BoardID:          boardID,
		ColumnID:         columnID,
		OriginalColumnID: columnID,
		Title:            "feedback " + id,
		DisplayID:        displayID,
	}
	require.NoError(t, repo.CreateFeedbackItem(context.Background(), item, nil))
	return item
}
