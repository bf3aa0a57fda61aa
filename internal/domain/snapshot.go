package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	untitledPrompt = "Untitled Prompt"
	emptyPrompt    = "Empty prompt"
	ellipsis       = "..."
)

// PromptSnapshot is a saved, named copy of a block list owned by one user.
type PromptSnapshot struct {
	ID          string
	UserID      string
	Blocks      []Block
	Title       string
	Preview     string
	CustomName  *string
	CustomColor string
	IsPinned    bool
	PinnedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName prefers the user's label over the derived title.
func (p *PromptSnapshot) DisplayName() string {
	if p.CustomName != nil && strings.TrimSpace(*p.CustomName) != "" {
		return *p.CustomName
	}
	return p.Title
}

// SetPinned updates the pin flag. PinnedAt is set exactly when the prompt
// becomes pinned and cleared when it is unpinned.
func (p *PromptSnapshot) SetPinned(pinned bool, now time.Time) {
	if pinned && !p.IsPinned {
		t := now
		p.PinnedAt = &t
	}
	if !pinned {
		p.PinnedAt = nil
	}
	p.IsPinned = pinned
	p.UpdatedAt = now
}

// DeriveTitle returns the content of the first non-empty block in list order,
// shortened to at most 50 characters.
func DeriveTitle(blocks []Block) string {
	for _, b := range blocks {
		if content := strings.TrimSpace(b.Content); content != "" {
			return truncateAtWord(content, 50, 47, 20)
		}
	}
	return untitledPrompt
}

// DerivePreview joins all non-empty block contents in list order with single
// spaces, shortened to at most 100 characters.
func DerivePreview(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		if content := strings.TrimSpace(b.Content); content != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return emptyPrompt
	}
	return truncateAtWord(strings.Join(parts, " "), 100, 97, 50)
}

// truncateAtWord returns s unchanged when it has at most limit characters.
// Otherwise it cuts s to cut characters, backs up to the last space in that
// slice if the space sits after minSpace, and appends an ellipsis.
// Lengths are counted in runes.
func truncateAtWord(s string, limit, cut, minSpace int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	head := runes[:cut]
	lastSpace := -1
	for i := len(head) - 1; i >= 0; i-- {
		if head[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if lastSpace > minSpace {
		return string(head[:lastSpace]) + ellipsis
	}
	return string(head) + ellipsis
}

// SortForDisplay orders snapshots with pinned prompts first (most recently
// pinned on top), then the rest newest-first by creation time.
func SortForDisplay(prompts []PromptSnapshot) []PromptSnapshot {
	out := make([]PromptSnapshot, len(prompts))
	copy(out, prompts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if a.IsPinned && a.PinnedAt != nil && b.PinnedAt != nil && !a.PinnedAt.Equal(*b.PinnedAt) {
			return a.PinnedAt.After(*b.PinnedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}
