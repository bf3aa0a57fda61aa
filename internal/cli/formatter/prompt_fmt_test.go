package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatPromptList(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	name := "Weekly digest"
	prompts := []domain.PromptSnapshot{
		{
			ID:          "11111111-aaaa-bbbb-cccc-000000000001",
			Title:       "Summarise the week",
			Preview:     "Summarise the week in five bullets",
			CustomName:  &name,
			CustomColor: "#ff0000",
			IsPinned:    true,
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ID:          "22222222-aaaa-bbbb-cccc-000000000002",
			Title:       "Draft an email",
			Preview:     "Draft an email",
			CustomColor: "not-a-color",
			CreatedAt:   now.Add(-30 * time.Second),
		},
	}

	out := FormatPromptList(prompts, now)
	assert.Contains(t, out, "SAVED PROMPTS")
	assert.Contains(t, out, "Weekly digest")
	assert.Contains(t, out, "Draft an email")
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "Just now")
	assert.Contains(t, out, "11111111")
}

func TestFormatPromptList_Empty(t *testing.T) {
	assert.Contains(t, FormatPromptList(nil, time.Now()), "No saved prompts")
}

func TestFormatPromptShow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pinnedAt := now.Add(-time.Hour)
	name := "Custom"
	p := &domain.PromptSnapshot{
		ID:          "prompt-1",
		Title:       "Write a haiku",
		CustomName:  &name,
		CustomColor: domain.DefaultPromptColor,
		IsPinned:    true,
		PinnedAt:    &pinnedAt,
		CreatedAt:   now.Add(-3 * time.Hour),
		Blocks: []domain.Block{
			{ID: "b1", Type: "Task", Content: "Write a haiku"},
			{ID: "b2", Type: "Tone"},
		},
	}

	out := FormatPromptShow(p, now)
	assert.Contains(t, out, "Custom")
	assert.Contains(t, out, "Write a haiku")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "PINNED")
	assert.Contains(t, out, "1h ago")
	assert.Contains(t, out, "■ Tone")
	assert.Contains(t, out, "(empty)")
}
