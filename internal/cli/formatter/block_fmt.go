package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

const contentPreviewWidth = 60

// FormatBlockTypes renders the block type registry in layout order.
func FormatBlockTypes() string {
	headers := []string{"#", "TYPE", "GROUP"}
	rows := make([][]string, 0, len(domain.BlockOrder))
	for i, t := range domain.BlockTypes() {
		group := Dim("core")
		if domain.IsNewType(t) {
			group = StyleBlue.Render("extended")
		}
		rows = append(rows, []string{Dim(fmt.Sprintf("%d", i+1)), BlockTypeBadge(t), group})
	}
	return RenderBox("Block Types", RenderTable(headers, rows))
}

// FormatBlockList renders the builder's blocks with their 1-based positions.
func FormatBlockList(blocks []domain.Block) string {
	if len(blocks) == 0 {
		return Dim("No blocks yet. Add one with: promptblocks block add Task") + "\n"
	}

	headers := []string{"#", "ID", "TYPE", "CONTENT"}
	rows := make([][]string, 0, len(blocks))
	for i, b := range blocks {
		content := Truncate(b.Content, contentPreviewWidth)
		if !b.HasContent() {
			content = Dim("(empty)")
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			TruncID(b.ID),
			BlockTypeBadge(b.Type),
			content,
		})
	}
	return RenderTable(headers, rows)
}

// FormatBlock renders a single block in full.
func FormatBlock(b domain.Block) string {
	var sb strings.Builder
	sb.WriteString(BlockTypeBadge(b.Type) + "  " + Dim(b.ID) + "\n")
	if b.HasContent() {
		sb.WriteString(b.Content + "\n")
	} else {
		sb.WriteString(Dim("(empty)") + "\n")
	}
	return sb.String()
}

// FormatPreview boxes the composed prompt text.
func FormatPreview(text string) string {
	if strings.TrimSpace(text) == "" {
		return Dim("Nothing to preview: every block is empty.") + "\n"
	}
	return RenderBox("Prompt", text) + "\n"
}

// FormatSuggestions lists generated suggestions for a block type.
func FormatSuggestions(blockType string, suggestions []string) string {
	if len(suggestions) == 0 {
		return Dim("No suggestions were generated.") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(Header("Suggestions for "+blockType) + "\n")
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("  %s %s\n", StylePurple.Render(fmt.Sprintf("%d.", i+1)), s))
	}
	return sb.String()
}

// FormatQuestions lists clarification questions.
func FormatQuestions(questions []string) string {
	var sb strings.Builder
	sb.WriteString(Header("A few questions first") + "\n")
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("  %s %s\n", StyleYellow.Render(fmt.Sprintf("%d.", i+1)), q))
	}
	return sb.String()
}
