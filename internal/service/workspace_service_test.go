package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceService_PersistAndRestore(t *testing.T) {
	database := testutil.NewTestDB(t)
	ws := NewWorkspaceService(testutil.NewTestUoW(database))
	ctx := context.Background()

	first := newTestStore(&fakeGateway{})
	first.AddBlockWithContent("Tone", "Calm")
	first.AddBlockWithContent("Task", "Summarise")
	require.NoError(t, ws.Persist(ctx, "alice", first))

	second := newTestStore(&fakeGateway{})
	require.NoError(t, ws.Restore(ctx, "alice", second))
	assert.Equal(t, first.Blocks(), second.Blocks())

	first.ClearBuilder()
	require.NoError(t, ws.Persist(ctx, "alice", first))
	require.NoError(t, ws.Restore(ctx, "alice", second))
	assert.Empty(t, second.Blocks())
}

func TestWorkspaceService_ScopedByUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	ws := NewWorkspaceService(testutil.NewTestUoW(database))
	ctx := context.Background()

	alice := newTestStore(&fakeGateway{})
	alice.AddBlockWithContent("Task", "Mine")
	require.NoError(t, ws.Persist(ctx, "alice", alice))

	bob := newTestStore(&fakeGateway{})
	bob.ReplaceBlocks([]domain.Block{domain.NewBlock("Tone", "stale")})
	require.NoError(t, ws.Restore(ctx, "bob", bob))
	assert.Empty(t, bob.Blocks())
}

func TestWorkspaceService_RequiresUser(t *testing.T) {
	ws := NewWorkspaceService(testutil.NewTestUoW(testutil.NewTestDB(t)))
	store := newTestStore(&fakeGateway{})

	assert.ErrorIs(t, ws.Persist(context.Background(), "", store), ErrUnauthenticated)
	assert.ErrorIs(t, ws.Restore(context.Background(), "", store), ErrUnauthenticated)
}
