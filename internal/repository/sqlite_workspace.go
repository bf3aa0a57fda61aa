package repository

import (
	"context"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/domain"
)

// SQLiteWorkspaceRepo implements WorkspaceRepo. Save replaces the whole list
// and should run inside a transaction.
type SQLiteWorkspaceRepo struct {
	db db.DBTX
}

// NewSQLiteWorkspaceRepo creates a SQLiteWorkspaceRepo over conn.
func NewSQLiteWorkspaceRepo(conn db.DBTX) *SQLiteWorkspaceRepo {
	return &SQLiteWorkspaceRepo{db: conn}
}

func (r *SQLiteWorkspaceRepo) Load(ctx context.Context, userID string) ([]domain.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT block_id, type, content FROM workspace_blocks WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, wrapStorageErr("loading workspace", err)
	}
	defer rows.Close()

	blocks := []domain.Block{}
	for rows.Next() {
		var b domain.Block
		if err := rows.Scan(&b.ID, &b.Type, &b.Content); err != nil {
			return nil, wrapStorageErr("scanning workspace block", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("iterating workspace", err)
	}
	return blocks, nil
}

func (r *SQLiteWorkspaceRepo) Save(ctx context.Context, userID string, blocks []domain.Block) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workspace_blocks WHERE user_id = ?`, userID); err != nil {
		return wrapStorageErr("clearing workspace", err)
	}
	for i, b := range blocks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO workspace_blocks (user_id, position, block_id, type, content) VALUES (?, ?, ?, ?, ?)`,
			userID, i, b.ID, b.Type, b.Content,
		)
		if err != nil {
			return wrapStorageErr("saving workspace block", err)
		}
	}
	return nil
}
