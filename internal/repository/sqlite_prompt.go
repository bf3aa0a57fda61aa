package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/domain"
)

const promptColumns = `id, user_id, title, preview, custom_name, custom_color, is_pinned, pinned_at, created_at, updated_at`

// SQLitePromptRepo implements PromptRepo. Create writes several rows, so
// callers run it on a transaction-scoped DBTX.
type SQLitePromptRepo struct {
	db db.DBTX
}

// NewSQLitePromptRepo creates a SQLitePromptRepo over conn.
func NewSQLitePromptRepo(conn db.DBTX) *SQLitePromptRepo {
	return &SQLitePromptRepo{db: conn}
}

func (r *SQLitePromptRepo) Create(ctx context.Context, p *domain.PromptSnapshot) error {
	query := `INSERT INTO prompts (` + promptColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Preview,
		nullableString(p.CustomName),
		p.CustomColor,
		boolToInt(p.IsPinned),
		nullableTimeToString(p.PinnedAt),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return wrapStorageErr("inserting prompt", err)
	}

	for i, b := range p.Blocks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO prompt_blocks (prompt_id, position, block_id, type, content) VALUES (?, ?, ?, ?, ?)`,
			p.ID, i, b.ID, b.Type, b.Content,
		)
		if err != nil {
			return wrapStorageErr("inserting prompt block", err)
		}
	}
	return nil
}

func (r *SQLitePromptRepo) GetByID(ctx context.Context, userID, id string) (*domain.PromptSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id)
	p, err := scanPrompt(row)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("prompt %s: %w", id, ErrPermissionDenied)
	}

	blocks, err := r.blocksFor(ctx, `WHERE prompt_id = ?`, id)
	if err != nil {
		return nil, err
	}
	p.Blocks = blocks[id]
	return p, nil
}

// ListByUser returns the user's prompts newest first, blocks included.
func (r *SQLitePromptRepo) ListByUser(ctx context.Context, userID string) ([]*domain.PromptSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, wrapStorageErr("listing prompts", err)
	}
	var prompts []*domain.PromptSnapshot
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, wrapStorageErr("iterating prompts", err)
	}
	rows.Close()

	if len(prompts) == 0 {
		return prompts, nil
	}
	blocks, err := r.blocksFor(ctx,
		`WHERE prompt_id IN (SELECT id FROM prompts WHERE user_id = ?)`, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		p.Blocks = blocks[p.ID]
	}
	return prompts, nil
}

func (r *SQLitePromptRepo) UpdatePin(ctx context.Context, userID, id string, pinned bool, pinnedAt *time.Time, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE prompts SET is_pinned = ?, pinned_at = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		boolToInt(pinned), nullableTimeToString(pinnedAt), formatTime(updatedAt), id, userID,
	)
	if err != nil {
		return wrapStorageErr("updating pin state", err)
	}
	return r.checkAffected(ctx, res, userID, id)
}

func (r *SQLitePromptRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return wrapStorageErr("deleting prompt", err)
	}
	return r.checkAffected(ctx, res, userID, id)
}

// checkAffected tells "no such prompt" apart from "someone else's prompt"
// when a user-scoped write touched no rows.
func (r *SQLitePromptRepo) checkAffected(ctx context.Context, res sql.Result, userID, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapStorageErr("reading rows affected", err)
	}
	if n > 0 {
		return nil
	}
	var owner string
	err = r.db.QueryRowContext(ctx, `SELECT user_id FROM prompts WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("prompt %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return wrapStorageErr("checking prompt owner", err)
	}
	if owner != userID {
		return fmt.Errorf("prompt %s: %w", id, ErrPermissionDenied)
	}
	return nil
}

func (r *SQLitePromptRepo) blocksFor(ctx context.Context, where string, args ...any) (map[string][]domain.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT prompt_id, block_id, type, content FROM prompt_blocks `+where+` ORDER BY prompt_id, position`, args...)
	if err != nil {
		return nil, wrapStorageErr("listing prompt blocks", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Block)
	for rows.Next() {
		var promptID string
		var b domain.Block
		if err := rows.Scan(&promptID, &b.ID, &b.Type, &b.Content); err != nil {
			return nil, wrapStorageErr("scanning prompt block", err)
		}
		out[promptID] = append(out[promptID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("iterating prompt blocks", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (*domain.PromptSnapshot, error) {
	var p domain.PromptSnapshot
	var customName, pinnedAt sql.NullString
	var isPinned int
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Preview, &customName, &p.CustomColor,
		&isPinned, &pinnedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("prompt: %w", ErrNotFound)
		}
		return nil, wrapStorageErr("scanning prompt", err)
	}

	p.CustomName = stringPtr(customName)
	p.IsPinned = intToBool(isPinned)
	p.PinnedAt = parseNullableTime(pinnedAt)
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
