package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

// PromptRepo stores prompt snapshots. Every lookup is scoped to a user: a
// prompt that exists but belongs to someone else yields ErrPermissionDenied.
type PromptRepo interface {
	Create(ctx context.Context, p *domain.PromptSnapshot) error
	GetByID(ctx context.Context, userID, id string) (*domain.PromptSnapshot, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.PromptSnapshot, error)
	UpdatePin(ctx context.Context, userID, id string, pinned bool, pinnedAt *time.Time, updatedAt time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

// WorkspaceRepo keeps a user's in-progress block list between runs.
type WorkspaceRepo interface {
	Load(ctx context.Context, userID string) ([]domain.Block, error)
	Save(ctx context.Context, userID string, blocks []domain.Block) error
}
