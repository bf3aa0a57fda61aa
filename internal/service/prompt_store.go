package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

// PromptStore holds the builder's block list, the current user and the
// user's saved prompts. It is safe for concurrent use; remote calls run
// without the lock held.
type PromptStore struct {
	gateway PromptGateway
	logger  *slog.Logger

	mu      sync.Mutex
	blocks  []domain.Block
	user    string
	saved   []domain.PromptSnapshot
	loading bool
	lastErr *Failure
}

// NewPromptStore creates an empty store backed by gateway.
func NewPromptStore(gateway PromptGateway, logger *slog.Logger) *PromptStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptStore{gateway: gateway, logger: logger, blocks: []domain.Block{}}
}

// AddBlock appends an empty block of the given type.
func (s *PromptStore) AddBlock(blockType string) domain.Block {
	return s.AddBlockWithContent(blockType, "")
}

// AddBlockWithContent appends a block created with its content in one step.
func (s *PromptStore) AddBlockWithContent(blockType, content string) domain.Block {
	b := domain.NewBlock(blockType, content)
	s.mu.Lock()
	s.blocks = append(s.blocks, b)
	s.mu.Unlock()
	return b
}

// UpdateBlock sets the content of block id. It reports false, changing
// nothing, when no such block exists.
func (s *PromptStore) UpdateBlock(id, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks[i].Content = content
			return true
		}
	}
	return false
}

// RemoveBlock deletes block id and reports whether it existed.
func (s *PromptStore) RemoveBlock(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.blocks {
		if b.ID == id {
			s.blocks = append(s.blocks[:i:i], s.blocks[i+1:]...)
			return true
		}
	}
	return false
}

// ReorderBlocks replaces the block list with blocks as given. No sorting is
// applied.
func (s *PromptStore) ReorderBlocks(blocks []domain.Block) {
	s.setBlocks(blocks)
}

// ReplaceBlocks swaps in a complete block list in one step.
func (s *PromptStore) ReplaceBlocks(blocks []domain.Block) {
	s.setBlocks(blocks)
}

// MoveBlock moves block id to position (0-based, clamped to the list).
func (s *PromptStore) MoveBlock(id string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := -1
	for i, b := range s.blocks {
		if b.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("block %s not found", id)
	}
	moved := s.blocks[from]
	rest := append(s.blocks[:from:from], s.blocks[from+1:]...)
	position = max(0, min(position, len(rest)))

	out := make([]domain.Block, 0, len(s.blocks))
	out = append(out, rest[:position]...)
	out = append(out, moved)
	out = append(out, rest[position:]...)
	s.blocks = out
	return nil
}

// ClearBuilder removes every block.
func (s *PromptStore) ClearBuilder() {
	s.setBlocks(nil)
}

// Blocks returns a copy of the block list.
func (s *PromptStore) Blocks() []domain.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Block{}, s.blocks...)
}

// FindBlock returns block id.
func (s *PromptStore) FindBlock(id string) (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Block{}, false
}

func (s *PromptStore) setBlocks(blocks []domain.Block) {
	s.mu.Lock()
	s.blocks = append([]domain.Block{}, blocks...)
	s.mu.Unlock()
}

// SetUser switches the signed-in identity and drops the previous user's
// saved prompts.
func (s *PromptStore) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != userID {
		s.saved = nil
	}
	s.user = userID
}

// User returns the current identity, empty when signed out.
func (s *PromptStore) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SavedPrompts returns the cached saved prompts, pinned first.
func (s *PromptStore) SavedPrompts() []domain.PromptSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SortForDisplay(s.saved)
}

// Loading reports whether a list load is in progress.
func (s *PromptStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent remote failure, or nil after a success.
func (s *PromptStore) LastError() *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LoadSavedPrompts refreshes the saved prompt list from the gateway.
func (s *PromptStore) LoadSavedPrompts(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	s.loading = true
	s.mu.Unlock()

	prompts, err := s.gateway.Load(ctx, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return s.failLocked(ctx, "loading saved prompts", err)
	}
	s.saved = prompts
	s.lastErr = nil
	return nil
}

// SavePrompt saves the current blocks and refreshes the saved list.
func (s *PromptStore) SavePrompt(ctx context.Context, name *string, color string) (string, error) {
	s.mu.Lock()
	user := s.user
	blocks := append([]domain.Block(nil), s.blocks...)
	s.mu.Unlock()

	id, err := s.gateway.Save(ctx, user, blocks, name, color)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return "", s.failLocked(ctx, "saving prompt", err)
	}
	if err := s.LoadSavedPrompts(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// LoadIntoBuilder replaces the builder blocks with a saved prompt's blocks.
func (s *PromptStore) LoadIntoBuilder(ctx context.Context, id string) (*domain.PromptSnapshot, error) {
	p, err := s.gateway.Get(ctx, s.User(), id)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.failLocked(ctx, "loading prompt", err)
	}
	s.ReplaceBlocks(p.Blocks)
	return p, nil
}

// DeleteSavedPrompt deletes a prompt remotely and drops it from the local
// list without reloading.
func (s *PromptStore) DeleteSavedPrompt(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, s.User(), id); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.failLocked(ctx, "deleting prompt", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.saved[:0:0]
	for _, p := range s.saved {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.saved = kept
	s.lastErr = nil
	return nil
}

// TogglePin flips the pin state of a saved prompt. The local list changes
// first and is restored if the remote update fails.
func (s *PromptStore) TogglePin(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	user := s.user
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("prompt %s is not in the loaded list", id)
	}
	pinned := !s.saved[idx].IsPinned
	s.mu.Unlock()

	err := Optimistic(ctx,
		func() []domain.PromptSnapshot {
			s.mu.Lock()
			defer s.mu.Unlock()
			return clonePrompts(s.saved)
		},
		func(before []domain.PromptSnapshot) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.saved = before
		},
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := s.indexLocked(id); i >= 0 {
				s.saved[i].SetPinned(pinned, nowUTC())
			}
		},
		func(ctx context.Context) error {
			return s.gateway.UpdatePinState(ctx, user, id, pinned)
		},
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return !pinned, s.failLocked(ctx, "updating pin", err)
	}
	s.lastErr = nil
	return pinned, nil
}

func (s *PromptStore) indexLocked(id string) int {
	for i, p := range s.saved {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// failLocked logs err, records its classification and returns it.
func (s *PromptStore) failLocked(ctx context.Context, op string, err error) error {
	f := ClassifyFailure(err)
	s.logger.ErrorContext(ctx, op+" failed",
		"error", err,
		"category", string(f.Category),
		"action", string(f.Action),
	)
	s.lastErr = f
	return f
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func clonePrompts(prompts []domain.PromptSnapshot) []domain.PromptSnapshot {
	out := make([]domain.PromptSnapshot, len(prompts))
	for i, p := range prompts {
		out[i] = p
		if p.PinnedAt != nil {
			at := *p.PinnedAt
			out[i].PinnedAt = &at
		}
	}
	return out
}
