package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/models"
)

// SetupTestDB creates a migrated in-memory database that is closed on cleanup
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepo returns a repository over a fresh in-memory database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// CreateTestBoard inserts a board in the collect phase with the given columns.
// With no titles the default template is used.
func CreateTestBoard(t *testing.T, repo database.BoardWriter, columns ...string) (*models.Board, []*models.Column) {
	t.Helper()

	var tcs []models.TemplateColumn
	if len(columns) == 0 {
		tmpl, err := models.TemplateByKey(models.DefaultTemplateKey)
		require.NoError(t, err)
		tcs = tmpl.Columns
	}
	for _, title := range columns {
		tcs = append(tcs, models.TemplateColumn{Title: title})
	}

	board, cols, err := repo.CreateBoard(context.Background(), &models.Board{
		Title:           "Test Retro",
		CreatedBy:       "tester",
		MaxVotesPerUser: 5,
		Phase:           models.PhaseCollect,
	}, tcs)
	require.NoError(t, err)
	return board, cols
}

// CreateTestFeedback inserts an item with a fixed display id (0 = unnumbered)
func CreateTestFeedback(t *testing.T, repo database.FeedbackWriter, board *models.Board, column *models.Column, id, title string, displayID int) *models.FeedbackItem {
	t.Helper()
	item := &models.FeedbackItem{
		ID:               id,
		BoardID:          board.ID,
		ColumnID:         column.ID,
		OriginalColumnID: column.ID,
		Title:            title,
		DisplayID:        displayID,
		CreatedBy:        "tester",
	}
	require.NoError(t, repo.CreateFeedbackItem(context.Background(), item, nil))
	return item
}
