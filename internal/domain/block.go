package domain

import (
	"sort"
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

// Block is one labeled section of a prompt.
type Block struct {
	ID      string
	Type    string
	Content string
}

// NewBlock creates a block with a fresh ID and the given initial content.
func NewBlock(blockType, content string) Block {
	return Block{
		ID:      shortuuid.New(),
		Type:    blockType,
		Content: content,
	}
}

// HasContent reports whether the block holds non-whitespace content.
func (b Block) HasContent() bool {
	return strings.TrimSpace(b.Content) != ""
}

// IsValidBlockType reports whether t is exactly one of the known block types.
func IsValidBlockType(t string) bool {
	return OrderIndex(t) >= 0
}

// OrderIndex returns the position of t in BlockOrder, or -1 if t is unknown.
func OrderIndex(t string) int {
	for i, bt := range BlockOrder {
		if string(bt) == t {
			return i
		}
	}
	return -1
}

// IsExistingType reports membership in the original five block types.
func IsExistingType(t string) bool {
	return existingBlockTypes[t]
}

// IsNewType reports membership in the four block types added later.
func IsNewType(t string) bool {
	return newBlockTypes[t]
}

// BlockTypes returns a copy of BlockOrder as strings.
func BlockTypes() []string {
	out := make([]string, len(BlockOrder))
	for i, bt := range BlockOrder {
		out[i] = string(bt)
	}
	return out
}

// ParseBlockType resolves loosely typed user input ("tone", "creativity-level")
// to a known block type. ok is false when the input matches no known type.
func ParseBlockType(s string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, bt := range BlockOrder {
		if strings.ToLower(string(bt)) == norm {
			return string(bt), true
		}
	}
	return s, false
}

// SortByOrder returns a copy of blocks ordered by BlockOrder.
//
// Blocks with an unknown type stay in the slots they occupy. Known blocks are
// stably sorted among themselves and written back into the remaining slots,
// so known types are always correctly ordered and unknown types keep their
// input order no matter where they sit.
func SortByOrder(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)

	var slots []int
	var known []Block
	for i, b := range out {
		if OrderIndex(b.Type) >= 0 {
			slots = append(slots, i)
			known = append(known, b)
		}
	}
	sort.SliceStable(known, func(i, j int) bool {
		return OrderIndex(known[i].Type) < OrderIndex(known[j].Type)
	})
	for k, slot := range slots {
		out[slot] = known[k]
	}
	return out
}

// ComposePrompt renders the export text for a block list: non-empty blocks in
// BlockOrder, one "Type: content" paragraph each.
func ComposePrompt(blocks []Block) string {
	var parts []string
	for _, b := range SortByOrder(blocks) {
		content := strings.TrimSpace(b.Content)
		if content == "" {
			continue
		}
		if strings.TrimSpace(b.Type) == "" {
			parts = append(parts, content)
			continue
		}
		parts = append(parts, b.Type+": "+content)
	}
	return strings.Join(parts, "\n\n")
}
