package column

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/testutil"
)

func setupService(t *testing.T) (Service, *database.Repository, *testutil.RecordingPublisher) {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	pub := testutil.NewRecordingPublisher()
	return NewService(repo, pub), repo, pub
}

func TestCreateColumn(t *testing.T) {
	svc, repo, pub := setupService(t)
	ctx := context.Background()
	board, cols := testutil.CreateTestBoard(t, repo, "Start", "Stop")

	appended, err := svc.CreateColumn(ctx, CreateColumnRequest{BoardID: board.ID, Title: "Continue", AccentColor: "#f6af08"})
	require.NoError(t, err)

	inserted, err := svc.CreateColumn(ctx, CreateColumnRequest{BoardID: board.ID, Title: "Try", AfterID: &cols[0].ID})
	require.NoError(t, err)

	list, err := svc.ListColumns(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []int{cols[0].ID, inserted.ID, cols[1].ID, appended.ID},
		[]int{list[0].ID, list[1].ID, list[2].ID, list[3].ID})

	evt, ok := pub.Last()
	require.True(t, ok)
	assert.Equal(t, events.EntityColumn, evt.Entity)
	assert.Equal(t, board.ID, evt.BoardID)
}

func TestCreateColumn_Validation(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	board, _ := testutil.CreateTestBoard(t, repo, "Start")
	_, otherCols := testutil.CreateTestBoard(t, repo, "Elsewhere")
	zero := 0

	tests := []struct {
		name string
		req  CreateColumnRequest
		want error
	}{
		{"empty title", CreateColumnRequest{BoardID: board.ID, Title: " "}, ErrEmptyTitle},
		{"long title", CreateColumnRequest{BoardID: board.ID, Title: strings.Repeat("c", 51)}, ErrTitleTooLong},
		{"bad board id", CreateColumnRequest{Title: "x"}, ErrInvalidBoardID},
		{"missing board", CreateColumnRequest{BoardID: 999, Title: "x"}, ErrBoardNotFound},
		{"bad after id", CreateColumnRequest{BoardID: board.ID, Title: "x", AfterID: &zero}, ErrInvalidColumnID},
		{"after column on other board", CreateColumnRequest{BoardID: board.ID, Title: "x", AfterID: &otherCols[0].ID}, ErrWrongBoard},
		{"bad color", CreateColumnRequest{BoardID: board.ID, Title: "x", AccentColor: "red"}, ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateColumn(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateColumn_TitleLimitCountsCharacters(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	board, _ := testutil.CreateTestBoard(t, repo, "Start")

	col, err := svc.CreateColumn(ctx, CreateColumnRequest{BoardID: board.ID, Title: strings.Repeat("🚀", 50)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("🚀", 50), col.Title)

	_, err = svc.CreateColumn(ctx, CreateColumnRequest{BoardID: board.ID, Title: strings.Repeat("🚀", 51)})
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestRenameColumn(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	_, cols := testutil.CreateTestBoard(t, repo, "Start")

	require.NoError(t, svc.RenameColumn(ctx, cols[0].ID, "Begin"))
	got, err := svc.GetColumn(ctx, cols[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Begin", got.Title)

	assert.ErrorIs(t, svc.RenameColumn(ctx, 999, "x"), ErrColumnNotFound)
	assert.ErrorIs(t, svc.RenameColumn(ctx, cols[0].ID, ""), ErrEmptyTitle)
}

func TestDeleteColumn(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()
	board, cols := testutil.CreateTestBoard(t, repo, "Start", "Stop")
	testutil.CreateTestFeedback(t, repo, board, cols[0], "f-1", "flaky tests", 1)

	assert.ErrorIs(t, svc.DeleteColumn(ctx, cols[0].ID), ErrColumnHasItems)

	require.NoError(t, svc.DeleteColumn(ctx, cols[1].ID))
	_, err := svc.GetColumn(ctx, cols[1].ID)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	require.NoError(t, repo.DeleteFeedbackItem(ctx, "f-1"))
	assert.ErrorIs(t, svc.DeleteColumn(ctx, cols[0].ID), ErrLastColumn)
}

func TestListColumns_UnknownBoard(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.ListColumns(context.Background(), 77)
	assert.ErrorIs(t, err, ErrBoardNotFound)

	_, err = svc.ListColumns(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidBoardID)
}
