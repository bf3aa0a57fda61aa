package testutil

import (
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/google/uuid"
)

// PromptOption customises a snapshot built by NewTestPrompt.
type PromptOption func(*domain.PromptSnapshot)

func WithBlocks(blocks ...domain.Block) PromptOption {
	return func(p *domain.PromptSnapshot) {
		p.Blocks = blocks
		p.Title = domain.DeriveTitle(blocks)
		p.Preview = domain.DerivePreview(blocks)
	}
}

func WithCustomName(name string) PromptOption {
	return func(p *domain.PromptSnapshot) {
		p.CustomName = &name
	}
}

func WithColor(color string) PromptOption {
	return func(p *domain.PromptSnapshot) {
		p.CustomColor = color
	}
}

func WithCreatedAt(t time.Time) PromptOption {
	return func(p *domain.PromptSnapshot) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func WithPinnedAt(t time.Time) PromptOption {
	return func(p *domain.PromptSnapshot) {
		p.IsPinned = true
		p.PinnedAt = &t
	}
}

// NewTestPrompt builds a snapshot owned by userID with a single Task block.
func NewTestPrompt(userID string, opts ...PromptOption) *domain.PromptSnapshot {
	now := time.Now().UTC().Truncate(time.Second)
	blocks := []domain.Block{domain.NewBlock(string(domain.BlockTask), "Write a haiku about autumn")}
	p := &domain.PromptSnapshot{
		ID:          uuid.New().String(),
		UserID:      userID,
		Blocks:      blocks,
		Title:       domain.DeriveTitle(blocks),
		Preview:     domain.DerivePreview(blocks),
		CustomColor: domain.DefaultPromptColor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TaskAndTone returns a two-block list used across tests.
func TaskAndTone(task, tone string) []domain.Block {
	return []domain.Block{
		domain.NewBlock(string(domain.BlockTask), task),
		domain.NewBlock(string(domain.BlockTone), tone),
	}
}
