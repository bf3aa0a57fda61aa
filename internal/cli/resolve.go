package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

// resolveBlock resolves a block reference which can be:
//   - A 1-based position in the builder ("2")
//   - A full block ID
//   - A unique ID prefix, as shown by "block list"
func resolveBlock(blocks []domain.Block, ref string) (domain.Block, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Block{}, fmt.Errorf("block reference is empty")
	}
	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > len(blocks) {
			return domain.Block{}, fmt.Errorf("no block at position %d (builder has %d)", pos, len(blocks))
		}
		return blocks[pos-1], nil
	}

	var matches []domain.Block
	for _, b := range blocks {
		if b.ID == ref {
			return b, nil
		}
		if strings.HasPrefix(b.ID, ref) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Block{}, fmt.Errorf("block %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Block{}, fmt.Errorf("block prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolvePromptID resolves a saved prompt reference (full ID or unique
// prefix) against the loaded list.
func resolvePromptID(prompts []domain.PromptSnapshot, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("prompt id is empty")
	}
	var matches []string
	for _, p := range prompts {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		// Unknown locally; let the gateway decide.
		return ref, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("prompt prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}
