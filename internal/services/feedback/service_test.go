package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/database"
	"github.com/thenoetrevino/retro/internal/events"
	"github.com/thenoetrevino/retro/internal/models"
	"github.com/thenoetrevino/retro/internal/testutil"
)

type fixture struct {
	svc   Service
	repo  *database.Repository
	pub   *testutil.RecordingPublisher
	board *models.Board
	cols  []*models.Column
	clock *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	pub := testutil.NewRecordingPublisher()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	board, cols := testutil.CreateTestBoard(t, repo, "What went well", "What didn't go well")
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return &fixture{
		svc:   NewService(repo, pub, opts...),
		repo:  repo,
		pub:   pub,
		board: board,
		cols:  cols,
		clock: clock,
	}
}

func (f *fixture) add(t *testing.T, col int, title string) *models.FeedbackItem {
	t.Helper()
	item, err := f.svc.CreateFeedback(context.Background(), CreateFeedbackRequest{
		BoardID:   f.board.ID,
		ColumnID:  f.cols[col].ID,
		Title:     title,
		CreatedBy: "ana",
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) setPhase(t *testing.T, phase models.Phase) {
	t.Helper()
	require.NoError(t, f.repo.UpdateBoardPhase(context.Background(), f.board.ID, phase))
}

func TestCreateFeedback_AssignsSequentialDisplayIDs(t *testing.T) {
	f := setup(t)

	first := f.add(t, 0, "Pairing sessions")
	second := f.add(t, 1, "Flaky CI")
	third := f.add(t, 0, "Release went smoothly")

	assert.Equal(t, 1, first.DisplayID)
	assert.Equal(t, 2, second.DisplayID)
	assert.Equal(t, 3, third.DisplayID)
	assert.Equal(t, f.cols[1].ID, second.OriginalColumnID)
	assert.Equal(t, "ana", second.CreatedBy)
	assert.Len(t, first.ID, 36, "ids are UUIDs")

	evt, ok := f.pub.Last()
	require.True(t, ok)
	assert.Equal(t, events.EntityFeedback, evt.Entity)
	assert.Equal(t, third.ID, evt.EntityID)
}

func TestCreateFeedback_ContinuesAfterUnnumberedItems(t *testing.T) {
	f := setup(t)
	testutil.CreateTestFeedback(t, f.repo, f.board, f.cols[0], "legacy-1", "imported", 0)
	testutil.CreateTestFeedback(t, f.repo, f.board, f.cols[1], "legacy-2", "imported", 0)

	item := f.add(t, 0, "new card")
	assert.Equal(t, 3, item.DisplayID)

	next := f.add(t, 1, "another")
	assert.Equal(t, 4, next.DisplayID)
}

func TestCreateFeedback_RetriesOnDisplayIDConflict(t *testing.T) {
	f := setup(t)
	// Take #1 behind the service's back so its first choice collides
	testutil.CreateTestFeedback(t, f.repo, f.board, f.cols[0], "racer", "from another terminal", 0)

	conflicting := &conflictOnce{Store: f.repo, boardID: f.board.ID, column: f.cols[0].ID}
	svc := NewService(conflicting, f.pub)

	item, err := svc.CreateFeedback(context.Background(), CreateFeedbackRequest{
		BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: "mine",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, conflicting.conflicts)
	assert.Equal(t, 3, item.DisplayID)
}

// conflictOnce lets another writer take the chosen display id the first
// time an item is created.
type conflictOnce struct {
	Store
	boardID   int
	column    int
	conflicts int
}

func (c *conflictOnce) CreateFeedbackItem(ctx context.Context, item *models.FeedbackItem, assign database.DisplayIDFunc) error {
	if c.conflicts == 0 {
		c.conflicts++
		taken := &models.FeedbackItem{
			ID: "interloper", BoardID: c.boardID, ColumnID: c.column, OriginalColumnID: c.column,
			Title: "raced", DisplayID: 2,
		}
		if err := c.Store.CreateFeedbackItem(ctx, taken, nil); err != nil {
			return err
		}
		return models.ErrDisplayIDConflict
	}
	return c.Store.CreateFeedbackItem(ctx, item, assign)
}

func TestCreateFeedback_GivesUpAfterRetries(t *testing.T) {
	f := setup(t)
	svc := NewService(alwaysConflict{Store: f.repo}, f.pub)

	_, err := svc.CreateFeedback(context.Background(), CreateFeedbackRequest{
		BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: "never",
	})
	assert.ErrorIs(t, err, ErrDisplayIDExhausted)
}

type alwaysConflict struct{ Store }

func (alwaysConflict) CreateFeedbackItem(context.Context, *models.FeedbackItem, database.DisplayIDFunc) error {
	return models.ErrDisplayIDConflict
}

func TestCreateFeedback_ConcurrentWritersGetDistinctIDs(t *testing.T) {
	f := setup(t)

	const writers = 8
	var wg sync.WaitGroup
	ids := make(chan int, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := f.svc.CreateFeedback(context.Background(), CreateFeedbackRequest{
				BoardID: f.board.ID, ColumnID: f.cols[i%2].ID, Title: fmt.Sprintf("card %d", i),
			})
			if err != nil {
				errs <- err
				return
			}
			ids <- item.DisplayID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "display id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, writers)
}

func TestCreateFeedback_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, otherCols := testutil.CreateTestBoard(t, f.repo, "Elsewhere")

	tests := []struct {
		name string
		req  CreateFeedbackRequest
		want error
	}{
		{"empty title", CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: "  "}, ErrEmptyTitle},
		{"long title", CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: strings.Repeat("é", 501)}, ErrTitleTooLong},
		{"bad board", CreateFeedbackRequest{ColumnID: f.cols[0].ID, Title: "x"}, ErrInvalidBoardID},
		{"missing board", CreateFeedbackRequest{BoardID: 999, ColumnID: f.cols[0].ID, Title: "x"}, ErrBoardNotFound},
		{"missing column", CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: 999, Title: "x"}, ErrColumnNotFound},
		{"column on other board", CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: otherCols[0].ID, Title: "x"}, ErrWrongBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateFeedback(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// 500 multi-byte characters is still within the limit
	_, err := f.svc.CreateFeedback(ctx, CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: strings.Repeat("é", 500)})
	assert.NoError(t, err)
}

func TestCreateFeedback_PhaseAndArchive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.setPhase(t, models.PhaseVote)

	req := CreateFeedbackRequest{BoardID: f.board.ID, ColumnID: f.cols[0].ID, Title: "late thought"}
	_, err := f.svc.CreateFeedback(ctx, req)
	assert.ErrorIs(t, err, ErrWrongPhase)

	req.Force = true
	_, err = f.svc.CreateFeedback(ctx, req)
	assert.NoError(t, err)

	require.NoError(t, f.repo.SetBoardArchived(ctx, f.board.ID, true))
	_, err = f.svc.CreateFeedback(ctx, req)
	assert.ErrorIs(t, err, ErrBoardArchived)
}

func TestCreateFeedback_AnonymousBoardDropsAuthor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	board, cols, err := f.repo.CreateBoard(ctx, &models.Board{Title: "anon", MaxVotesPerUser: 3, IsAnonymous: true},
		[]models.TemplateColumn{{Title: "Thoughts"}})
	require.NoError(t, err)

	item, err := f.svc.CreateFeedback(ctx, CreateFeedbackRequest{BoardID: board.ID, ColumnID: cols[0].ID, Title: "secret", CreatedBy: "ana"})
	require.NoError(t, err)
	assert.Empty(t, item.CreatedBy)
}

func TestResolveFeedback(t *testing.T) {
	f := setup(t, WithIDGenerator(sequentialIDs("aaaa1111", "aaaa2222", "bbbb3333")))
	ctx := context.Background()
	first := f.add(t, 0, "one")
	second := f.add(t, 0, "two")
	third := f.add(t, 1, "three")

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"#2", second.ID, nil},
		{"3", third.ID, nil},
		{"aaaa1111", first.ID, nil},
		{"bbbb", third.ID, nil},
		{"aaaa", "", ErrAmbiguousItemRef},
		{"#9", "", ErrItemNotFound},
		{"#0", "", ErrInvalidItemRef},
		{"zzz", "", ErrItemNotFound},
		{"", "", ErrInvalidItemRef},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := f.svc.ResolveFeedback(ctx, f.board.ID, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestResolveFeedback_NumericIDPrefix(t *testing.T) {
	f := setup(t, WithIDGenerator(sequentialIDs("12345678-aaaa", "90000000-bbbb")))
	ctx := context.Background()
	first := f.add(t, 0, "one")
	second := f.add(t, 0, "two")

	tests := []struct {
		ref  string
		want string
	}{
		{"1234", first.ID},  // digit-only id prefix
		{"9000", second.ID}, // digit-only id prefix
		{"2", second.ID},    // short number is a display id
		{"#1", first.ID},
		{"0002", second.ID}, // no id starts with it, so it is a display id
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := f.svc.ResolveFeedback(ctx, f.board.ID, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, err := f.svc.ResolveFeedback(ctx, f.board.ID, "5555")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func sequentialIDs(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestSnapshot_Placeholders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.add(t, 0, "only card")

	columns, err := f.svc.Snapshot(ctx, f.board.ID, true)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, item.ID, columns[0].Items[0].FeedbackItem.ID)
	require.Len(t, columns[1].Items, 1)
	assert.True(t, columns[1].Items[0].FeedbackItem.IsPlaceholder())

	// Placeholders never affect numbering
	assert.Equal(t, 2, GetNextDisplayID(models.ColumnMap(columns)))

	bare, err := f.svc.Snapshot(ctx, f.board.ID, false)
	require.NoError(t, err)
	assert.Empty(t, bare[1].Items)
}

func TestRenameFeedback(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.add(t, 0, "typo")

	require.NoError(t, f.svc.RenameFeedback(ctx, item.ID, "fixed"))
	got, err := f.svc.GetFeedback(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Title)

	assert.ErrorIs(t, f.svc.RenameFeedback(ctx, "missing", "x"), ErrItemNotFound)
	assert.ErrorIs(t, f.svc.RenameFeedback(ctx, item.ID, ""), ErrEmptyTitle)
}

func TestMoveFeedback(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	parent := f.add(t, 0, "parent")
	child := f.add(t, 0, "child")
	require.NoError(t, f.svc.Group(ctx, child.ID, parent.ID))

	assert.ErrorIs(t, f.svc.MoveFeedback(ctx, child.ID, f.cols[1].ID), ErrMoveGroupedChild)
	assert.ErrorIs(t, f.svc.MoveFeedback(ctx, parent.ID, 999), ErrColumnNotFound)

	require.NoError(t, f.svc.MoveFeedback(ctx, parent.ID, f.cols[1].ID))
	movedChild, err := f.svc.GetFeedback(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, f.cols[1].ID, movedChild.ColumnID)
}

func TestVoting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.add(t, 0, "a")
	b := f.add(t, 1, "b")

	_, err := f.svc.Vote(ctx, a.ID, "ana", false)
	assert.ErrorIs(t, err, ErrWrongPhase, "voting needs the vote phase")

	f.setPhase(t, models.PhaseVote)

	_, err = f.svc.Vote(ctx, a.ID, " ", false)
	assert.ErrorIs(t, err, ErrEmptyUser)

	// Test board allows 5 votes per user
	for i := 1; i <= 3; i++ {
		n, err := f.svc.Vote(ctx, a.ID, "ana", false)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	for i := 0; i < 2; i++ {
		_, err := f.svc.Vote(ctx, b.ID, "ana", false)
		require.NoError(t, err)
	}
	_, err = f.svc.Vote(ctx, b.ID, "ana", false)
	assert.ErrorIs(t, err, ErrVoteLimitReached)

	n, err := f.svc.Unvote(ctx, a.ID, "ana", false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = f.svc.Unvote(ctx, a.ID, "ben", false)
	assert.ErrorIs(t, err, ErrNoVoteToRemove)

	_, err = f.svc.Vote(ctx, "missing", "ana", false)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestVoting_ForceOutsideVotePhase(t *testing.T) {
	f := setup(t)
	item := f.add(t, 0, "a")

	n, err := f.svc.Vote(context.Background(), item.ID, "ana", true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTimer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.add(t, 0, "discuss me")

	_, err := f.svc.StopTimer(ctx, item.ID)
	assert.ErrorIs(t, err, ErrTimerNotRunning)

	started, err := f.svc.StartTimer(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, started.TimerRunning())

	_, err = f.svc.StartTimer(ctx, item.ID)
	assert.ErrorIs(t, err, ErrTimerRunning)

	f.clock.Advance(95 * time.Second)
	stopped, err := f.svc.StopTimer(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, stopped.TimerRunning())
	assert.Equal(t, 95, stopped.TimerSecs)
	assert.Equal(t, "1:35", FormatTimer(stopped.TimerSecs))

	// Accumulates across runs
	_, err = f.svc.StartTimer(ctx, item.ID)
	require.NoError(t, err)
	f.clock.Advance(10 * time.Second)
	stopped, err = f.svc.StopTimer(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, stopped.TimerSecs)

	reset, err := f.svc.ResetTimer(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reset.TimerSecs)

	persisted, err := f.svc.GetFeedback(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, persisted.TimerSecs)
	assert.Nil(t, persisted.TimerStartedAt)
}

func TestGroupAndUngroup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	parent := f.add(t, 0, "Deploys are slow")
	child := f.add(t, 1, "Pipeline takes 40 minutes")
	other := f.add(t, 1, "Standups run long")

	require.NoError(t, f.svc.Group(ctx, child.ID, parent.ID))

	grouped, err := f.svc.GetFeedback(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, grouped.ParentID)
	assert.Equal(t, parent.ID, *grouped.ParentID)
	assert.Equal(t, f.cols[0].ID, grouped.ColumnID, "child joins the parent's column")
	assert.Equal(t, f.cols[1].ID, grouped.OriginalColumnID)

	reloadedParent, err := f.svc.GetFeedback(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, reloadedParent.ChildIDs)

	assert.ErrorIs(t, f.svc.Group(ctx, parent.ID, parent.ID), ErrSelfGroup)
	assert.ErrorIs(t, f.svc.Group(ctx, other.ID, child.ID), ErrParentIsChild)
	assert.ErrorIs(t, f.svc.Group(ctx, parent.ID, other.ID), ErrChildHasChildren)

	require.NoError(t, f.svc.Ungroup(ctx, child.ID))
	released, err := f.svc.GetFeedback(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, released.ParentID)
	assert.Equal(t, f.cols[1].ID, released.ColumnID, "ungroup restores the original column")

	assert.ErrorIs(t, f.svc.Ungroup(ctx, child.ID), ErrNotGrouped)
}

func TestGroup_DifferentBoards(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := f.add(t, 0, "here")

	otherBoard, otherCols := testutil.CreateTestBoard(t, f.repo, "There")
	elsewhere := testutil.CreateTestFeedback(t, f.repo, otherBoard, otherCols[0], "elsewhere", "there", 1)

	assert.ErrorIs(t, f.svc.Group(ctx, item.ID, elsewhere.ID), ErrDifferentBoards)
}

func TestDeleteFeedback_ReleasesChildren(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	parent := f.add(t, 0, "parent")
	child := f.add(t, 1, "child")
	require.NoError(t, f.svc.Group(ctx, child.ID, parent.ID))
	_, err := f.repo.CreateActionItem(ctx, &models.ActionItem{BoardID: f.board.ID, FeedbackItemID: parent.ID, Title: "follow up"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteFeedback(ctx, parent.ID))

	_, err = f.svc.GetFeedback(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	released, err := f.svc.GetFeedback(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, released.IsGrouped())

	actions, err := f.repo.GetActionItemsByBoard(ctx, f.board.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}
