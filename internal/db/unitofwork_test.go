package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertPrompt(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO prompts (id, user_id, title, preview, created_at, updated_at)
		VALUES (?, 'u1', 't', 'p', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id)
	return err
}

func promptExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM prompts WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertPrompt(ctx, tx, "p1")
	})
	require.NoError(t, err)
	assert.True(t, promptExists(t, database, "p1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPrompt(ctx, tx, "p2"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, promptExists(t, database, "p2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPrompt(ctx, tx, "p3")
			panic("boom")
		})
	})
	assert.False(t, promptExists(t, database, "p3"))
}

func TestWithinReadTx_SeesCommittedRows(t *testing.T) {
	_, uow := openUoW(t)
	ctx := context.Background()
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertPrompt(ctx, tx, "p4")
	}))

	var title string
	err := uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT title FROM prompts WHERE id = 'p4'`).Scan(&title)
	})
	require.NoError(t, err)
	assert.Equal(t, "t", title)
}
