package service

import (
	"context"
	"time"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/repository"
)

// WorkspaceService persists the builder's block list between CLI runs.
type WorkspaceService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewWorkspaceService creates a WorkspaceService.
func NewWorkspaceService(uow db.UnitOfWork, observers ...UseCaseObserver) *WorkspaceService {
	return &WorkspaceService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Restore loads the user's saved workspace into store.
func (w *WorkspaceService) Restore(ctx context.Context, userID string, store *PromptStore) (err error) {
	fields := map[string]any{"user": userID}
	defer observe(ctx, w.observer, "workspace-restore", time.Now(), fields, &err)

	if userID == "" {
		return ErrUnauthenticated
	}
	var blocks []domain.Block
	err = w.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var loadErr error
		blocks, loadErr = repository.NewSQLiteWorkspaceRepo(tx).Load(ctx, userID)
		return loadErr
	})
	if err != nil {
		return err
	}
	fields["blocks"] = len(blocks)
	store.ReplaceBlocks(blocks)
	return nil
}

// Persist writes store's current blocks as the user's workspace.
func (w *WorkspaceService) Persist(ctx context.Context, userID string, store *PromptStore) (err error) {
	blocks := store.Blocks()
	fields := map[string]any{"user": userID, "blocks": len(blocks)}
	defer observe(ctx, w.observer, "workspace-persist", time.Now(), fields, &err)

	if userID == "" {
		return ErrUnauthenticated
	}
	return w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWorkspaceRepo(tx).Save(ctx, userID, blocks)
	})
}
