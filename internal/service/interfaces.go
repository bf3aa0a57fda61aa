package service

import (
	"context"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

// PromptGateway is the persistence surface PromptStore depends on.
type PromptGateway interface {
	Load(ctx context.Context, userID string) ([]domain.PromptSnapshot, error)
	Get(ctx context.Context, userID, id string) (*domain.PromptSnapshot, error)
	Save(ctx context.Context, userID string, blocks []domain.Block, customName *string, customColor string) (string, error)
	Delete(ctx context.Context, userID, id string) error
	UpdatePinState(ctx context.Context, userID, id string, pinned bool) error
}

var _ PromptGateway = (*PersistenceGateway)(nil)
