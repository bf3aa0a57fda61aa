package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPromptCacheSize bounds the number of snapshots kept by id.
const DefaultPromptCacheSize = 128

// CachedPromptRepo serves GetByID from an LRU cache. Pin updates and deletes
// evict the entry; lists always hit the underlying repo.
type CachedPromptRepo struct {
	PromptRepo
	cache *lru.Cache[string, domain.PromptSnapshot]
}

// NewCachedPromptRepo wraps inner with a cache of the given size.
func NewCachedPromptRepo(inner PromptRepo, size int) (*CachedPromptRepo, error) {
	if size <= 0 {
		size = DefaultPromptCacheSize
	}
	cache, err := lru.New[string, domain.PromptSnapshot](size)
	if err != nil {
		return nil, fmt.Errorf("creating prompt cache: %w", err)
	}
	return &CachedPromptRepo{PromptRepo: inner, cache: cache}, nil
}

func (r *CachedPromptRepo) GetByID(ctx context.Context, userID, id string) (*domain.PromptSnapshot, error) {
	if p, ok := r.cache.Get(id); ok {
		if p.UserID != userID {
			return nil, fmt.Errorf("prompt %s: %w", id, ErrPermissionDenied)
		}
		return clonePrompt(p), nil
	}
	p, err := r.PromptRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, *clonePrompt(*p))
	return p, nil
}

func (r *CachedPromptRepo) UpdatePin(ctx context.Context, userID, id string, pinned bool, pinnedAt *time.Time, updatedAt time.Time) error {
	r.cache.Remove(id)
	return r.PromptRepo.UpdatePin(ctx, userID, id, pinned, pinnedAt, updatedAt)
}

func (r *CachedPromptRepo) Delete(ctx context.Context, userID, id string) error {
	r.cache.Remove(id)
	return r.PromptRepo.Delete(ctx, userID, id)
}

// Invalidate drops id from the cache.
func (r *CachedPromptRepo) Invalidate(id string) {
	r.cache.Remove(id)
}

// Len reports how many snapshots are cached.
func (r *CachedPromptRepo) Len() int {
	return r.cache.Len()
}

func clonePrompt(p domain.PromptSnapshot) *domain.PromptSnapshot {
	out := p
	out.Blocks = append([]domain.Block(nil), p.Blocks...)
	if p.CustomName != nil {
		name := *p.CustomName
		out.CustomName = &name
	}
	if p.PinnedAt != nil {
		at := *p.PinnedAt
		out.PinnedAt = &at
	}
	return &out
}
