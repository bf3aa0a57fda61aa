package formatter

import (
	"testing"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatBlockTypes(t *testing.T) {
	out := FormatBlockTypes()

	assert.Contains(t, out, "BLOCK TYPES")
	for _, bt := range domain.BlockTypes() {
		assert.Contains(t, out, bt)
	}
	assert.Contains(t, out, "core")
	assert.Contains(t, out, "extended")
}

func TestFormatBlockList(t *testing.T) {
	blocks := []domain.Block{
		{ID: "blk-0000001-task", Type: "Task", Content: "Summarise the report"},
		{ID: "blk-0000002-tone", Type: "Tone"},
		{ID: "blk-0000003-misc", Type: "Mood", Content: "calm"},
	}
	out := FormatBlockList(blocks)

	assert.Contains(t, out, "Summarise the report")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "■ Mood")
	assert.Contains(t, out, "blk-0000")
	assert.Contains(t, out, "3")
}

func TestFormatBlockList_Empty(t *testing.T) {
	assert.Contains(t, FormatBlockList(nil), "No blocks yet")
}

func TestFormatPreview(t *testing.T) {
	assert.Contains(t, FormatPreview("Task: write"), "Task: write")
	assert.Contains(t, FormatPreview("Task: write"), "PROMPT")
	assert.Contains(t, FormatPreview("  "), "Nothing to preview")
}

func TestFormatSuggestionsAndQuestions(t *testing.T) {
	out := FormatSuggestions("Tone", []string{"Warm and direct", "Playful"})
	assert.Contains(t, out, "SUGGESTIONS FOR TONE")
	assert.Contains(t, out, "1. Warm and direct")
	assert.Contains(t, out, "2. Playful")
	assert.Contains(t, FormatSuggestions("Tone", nil), "No suggestions")

	q := FormatQuestions([]string{"Who is the audience?"})
	assert.Contains(t, q, "1. Who is the audience?")
}
