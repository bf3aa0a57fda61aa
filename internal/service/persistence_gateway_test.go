package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/repository"
	"github.com/alexanderramin/promptblocks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func newTestGateway(t *testing.T) (*PersistenceGateway, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	prompts, err := repository.NewCachedPromptRepo(repository.NewSQLitePromptRepo(database), 8)
	require.NoError(t, err)
	return NewPersistenceGateway(prompts, testutil.NewTestUoW(database), fastRetry()), database
}

// flakyPromptRepo fails the first failures calls with err.
type flakyPromptRepo struct {
	repository.PromptRepo
	failures int
	err      error
	calls    int
}

func (r *flakyPromptRepo) Delete(ctx context.Context, userID, id string) error {
	r.calls++
	if r.calls <= r.failures {
		return r.err
	}
	return r.PromptRepo.Delete(ctx, userID, id)
}

func strPtr(s string) *string { return &s }

func TestGateway_SaveAndLoad(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	blocks := []domain.Block{
		domain.NewBlock("Task", "Write an email"),
		domain.NewBlock("Tone", ""),
	}
	id, err := gw.Save(ctx, "alice", blocks, strPtr("  Weekly update "), "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := gw.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Write an email", p.Title)
	assert.Equal(t, "Write an email", p.Preview)
	assert.Equal(t, domain.DefaultPromptColor, p.CustomColor)
	require.NotNil(t, p.CustomName)
	assert.Equal(t, "Weekly update", *p.CustomName)
	assert.Equal(t, blocks, p.Blocks)
	assert.False(t, p.IsPinned)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestGateway_LoadNewestFirst(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	gw.now = func() time.Time { return clock }
	first, err := gw.Save(ctx, "alice", testutil.TaskAndTone("first", ""), nil, "")
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	second, err := gw.Save(ctx, "alice", testutil.TaskAndTone("second", ""), nil, "#abc")
	require.NoError(t, err)

	list, err := gw.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.Equal(t, "#abc", list[0].CustomColor)
}

func TestGateway_SaveValidation(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := gw.Save(ctx, "", testutil.TaskAndTone("x", ""), nil, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = gw.Save(ctx, "alice", nil, nil, "")
	assert.ErrorIs(t, err, ErrNoBlocks)

	_, err = gw.Save(ctx, "alice", testutil.TaskAndTone("  ", ""), nil, "")
	assert.ErrorIs(t, err, ErrEmptyBlocks)

	_, err = gw.Save(ctx, "alice", testutil.TaskAndTone("x", ""), nil, "indigo")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestGateway_Unauthenticated(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := gw.Load(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, gw.Delete(ctx, "", "id"), ErrUnauthenticated)
	assert.ErrorIs(t, gw.UpdatePinState(ctx, "", "id", true), ErrUnauthenticated)
}

func TestGateway_DeleteRequiresID(t *testing.T) {
	gw, _ := newTestGateway(t)
	assert.ErrorIs(t, gw.Delete(context.Background(), "alice", " "), ErrInvalidPromptID)
}

func TestGateway_PinSetsAndClearsPinnedAt(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	gw.now = func() time.Time { return clock }
	id, err := gw.Save(ctx, "alice", testutil.TaskAndTone("x", ""), nil, "")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	require.NoError(t, gw.UpdatePinState(ctx, "alice", id, true))
	p, err := gw.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.True(t, p.IsPinned)
	require.NotNil(t, p.PinnedAt)
	assert.True(t, clock.Equal(*p.PinnedAt))
	assert.True(t, clock.Equal(p.UpdatedAt))
	assert.True(t, p.CreatedAt.Before(p.UpdatedAt))

	require.NoError(t, gw.UpdatePinState(ctx, "alice", id, false))
	p, err = gw.Get(ctx, "alice", id)
	require.NoError(t, err)
	assert.False(t, p.IsPinned)
	assert.Nil(t, p.PinnedAt)
}

func TestGateway_OtherUsersPromptIsDenied(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	id, err := gw.Save(ctx, "alice", testutil.TaskAndTone("x", ""), nil, "")
	require.NoError(t, err)

	_, err = gw.Get(ctx, "bob", id)
	assert.ErrorIs(t, err, repository.ErrPermissionDenied)
	assert.ErrorIs(t, gw.Delete(ctx, "bob", id), repository.ErrPermissionDenied)
	assert.ErrorIs(t, gw.UpdatePinState(ctx, "bob", id, true), repository.ErrPermissionDenied)

	list, err := gw.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGateway_RetriesTransientErrors(t *testing.T) {
	database := testutil.NewTestDB(t)
	flaky := &flakyPromptRepo{
		PromptRepo: repository.NewSQLitePromptRepo(database),
		failures:   2,
		err:        repository.ErrUnavailable,
	}
	gw := NewPersistenceGateway(flaky, testutil.NewTestUoW(database), fastRetry())
	ctx := context.Background()

	id, err := gw.Save(ctx, "alice", testutil.TaskAndTone("x", ""), nil, "")
	require.NoError(t, err)

	require.NoError(t, gw.Delete(ctx, "alice", id))
	assert.Equal(t, 3, flaky.calls)
}

func TestGateway_GivesUpAfterMaxAttempts(t *testing.T) {
	database := testutil.NewTestDB(t)
	flaky := &flakyPromptRepo{
		PromptRepo: repository.NewSQLitePromptRepo(database),
		failures:   10,
		err:        repository.ErrUnavailable,
	}
	gw := NewPersistenceGateway(flaky, testutil.NewTestUoW(database), fastRetry())

	err := gw.Delete(context.Background(), "alice", "p1")
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Equal(t, 3, flaky.calls)
}

func TestGateway_PermissionDeniedIsNotRetried(t *testing.T) {
	database := testutil.NewTestDB(t)
	flaky := &flakyPromptRepo{
		PromptRepo: repository.NewSQLitePromptRepo(database),
		failures:   10,
		err:        repository.ErrPermissionDenied,
	}
	gw := NewPersistenceGateway(flaky, testutil.NewTestUoW(database), fastRetry())

	err := gw.Delete(context.Background(), "alice", "p1")
	assert.ErrorIs(t, err, repository.ErrPermissionDenied)
	assert.Equal(t, 1, flaky.calls)
}

func TestGateway_SaveIsAtomic(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("disk full")}
	gw := NewPersistenceGateway(repository.NewSQLitePromptRepo(database), uow,
		RetryPolicy{MaxAttempts: 1})
	ctx := context.Background()

	_, err := gw.Save(ctx, "alice", testutil.TaskAndTone("a", "b"), nil, "")
	require.Error(t, err)

	list, err := NewPersistenceGateway(repository.NewSQLitePromptRepo(database),
		db.NewSQLiteUnitOfWork(database), fastRetry()).Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list, "no prompt row without its blocks")
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func TestGateway_ReportsUseCases(t *testing.T) {
	database := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	gw := NewPersistenceGateway(repository.NewSQLitePromptRepo(database), testutil.NewTestUoW(database), fastRetry(), obs)
	ctx := context.Background()

	_, err := gw.Save(ctx, "alice", testutil.TaskAndTone("a", ""), nil, "")
	require.NoError(t, err)
	_, err = gw.Load(ctx, "")
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "prompt-save", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 1, obs.events[0].Fields["attempts"])
	assert.Equal(t, "prompt-load", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, ErrUnauthenticated)
}
