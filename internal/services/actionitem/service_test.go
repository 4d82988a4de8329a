package actionitem

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/testutil"
)

func TestActionItemLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := testutil.SetupTestRepo(t)
	pub := testutil.NewRecordingPublisher()
	svc := NewService(repo, pub)

	board, cols := testutil.CreateTestBoard(t, repo)
	item := testutil.CreateTestFeedback(t, repo, board, cols[1], "f-1", "Deploy broke twice", 1)

	created, err := svc.CreateActionItem(ctx, CreateActionItemRequest{
		FeedbackItemID: item.ID,
		Title:          " Add a canary stage ",
		Assignee:       "ben",
	})
	require.NoError(t, err)
	assert.Equal(t, "Add a canary stage", created.Title)
	assert.Equal(t, board.ID, created.BoardID)

	evt, ok := pub.Last()
	require.True(t, ok)
	assert.Equal(t, events.EntityActionItem, evt.Entity)

	require.NoError(t, svc.SetCompleted(ctx, created.ID, true))
	got, err := svc.GetActionItem(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, svc.SetCompleted(ctx, created.ID, false))
	byItem, err := svc.ListByFeedback(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.False(t, byItem[0].Completed)

	byBoard, err := svc.ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Len(t, byBoard, 1)

	require.NoError(t, svc.DeleteActionItem(ctx, created.ID))
	_, err = svc.GetActionItem(ctx, created.ID)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestCreateActionItem_Validation(t *testing.T) {
	ctx := context.Background()
	repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, nil)
	board, cols := testutil.CreateTestBoard(t, repo)
	item := testutil.CreateTestFeedback(t, repo, board, cols[0], "f-1", "x", 1)

	_, err := svc.CreateActionItem(ctx, CreateActionItemRequest{FeedbackItemID: item.ID})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.CreateActionItem(ctx, CreateActionItemRequest{FeedbackItemID: item.ID, Title: strings.Repeat("a", 201)})
	assert.ErrorIs(t, err, ErrTitleTooLong)

	action, err := svc.CreateActionItem(ctx, CreateActionItemRequest{FeedbackItemID: item.ID, Title: strings.Repeat("é", 200)})
	require.NoError(t, err, "limit counts characters, not bytes")
	assert.Equal(t, strings.Repeat("é", 200), action.Title)

	_, err = svc.CreateActionItem(ctx, CreateActionItemRequest{FeedbackItemID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, repo.SetBoardArchived(ctx, board.ID, true))
	_, err = svc.CreateActionItem(ctx, CreateActionItemRequest{FeedbackItemID: item.ID, Title: "x"})
	assert.ErrorIs(t, err, ErrBoardArchived)

	_, err = svc.GetActionItem(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidActionID)
	assert.ErrorIs(t, svc.DeleteActionItem(ctx, 42), ErrActionNotFound)

	_, err = svc.ListByBoard(ctx, 999)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}
