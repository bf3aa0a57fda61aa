package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS prompts (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		preview      TEXT NOT NULL,
		custom_name  TEXT,
		custom_color TEXT NOT NULL DEFAULT '#6366f1',
		is_pinned    INTEGER NOT NULL DEFAULT 0,
		pinned_at    TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prompts_user_created ON prompts(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS prompt_blocks (
		prompt_id TEXT NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		block_id  TEXT NOT NULL,
		type      TEXT NOT NULL,
		content   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (prompt_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS workspace_blocks (
		user_id  TEXT NOT NULL,
		position INTEGER NOT NULL,
		block_id TEXT NOT NULL,
		type     TEXT NOT NULL,
		content  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_prompts_user_pinned ON prompts(user_id, is_pinned)`,
}

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
