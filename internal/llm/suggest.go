package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var blockContentTemplates = map[string]string{
	"Task": `Write one clear, specific task instruction that someone could give to an AI assistant.
Keep it to one or two sentences. Respond with the task text only, no preamble or quotes.`,

	"Tone": `Describe a tone of voice an AI assistant could use in its answer (for example
professional, playful, empathetic). Keep it under 20 words. Respond with the tone description only.`,

	"Format": `Describe an output format for an AI assistant's answer (for example a bulleted list,
a table, a short email). Keep it under 25 words. Respond with the format description only.`,

	"Persona": `Describe a persona or role an AI assistant could adopt (for example an experienced
copy editor). Keep it to one sentence. Respond with the persona description only.`,

	"Constraint": `Write one constraint an AI assistant should respect in its answer (for example a
word limit or a topic to avoid). Keep it to one sentence. Respond with the constraint only.`,
}

const genericBlockContentTemplate = `Write short, useful content for the %q section of a structured prompt
for an AI assistant. Keep it to one or two sentences. Respond with the content only.`

// Suggester produces standalone content for individual blocks.
type Suggester struct {
	client   LLMClient
	interval time.Duration
}

// NewSuggester creates a Suggester. interval is the minimum spacing between
// consecutive calls in GenerateSuggestions.
func NewSuggester(client LLMClient, interval time.Duration) *Suggester {
	return &Suggester{client: client, interval: interval}
}

// BlockContentPrompt returns the instruction used for a block type.
func BlockContentPrompt(blockType string) string {
	if tmpl, ok := blockContentTemplates[blockType]; ok {
		return tmpl
	}
	return fmt.Sprintf(genericBlockContentTemplate, blockType)
}

// GenerateBlockContent asks the model for content for a single block.
func (s *Suggester) GenerateBlockContent(ctx context.Context, blockType string) (string, error) {
	resp, err := s.client.Generate(ctx, GenerateRequest{
		Task:   TaskBlockContent,
		Prompt: BlockContentPrompt(blockType),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(StripCodeFences(resp.Text)), nil
}

// GenerateSuggestions requests count suggestions one after another. It is
// best effort: the first failure ends the batch and the suggestions gathered
// so far are returned.
func (s *Suggester) GenerateSuggestions(ctx context.Context, blockType string, count int) []string {
	limit := rate.Inf
	if s.interval > 0 {
		limit = rate.Every(s.interval)
	}
	pace := rate.NewLimiter(limit, 1)

	var out []string
	for i := 0; i < count; i++ {
		if err := pace.Wait(ctx); err != nil {
			break
		}
		text, err := s.GenerateBlockContent(ctx, blockType)
		if err != nil {
			break
		}
		out = append(out, text)
	}
	return out
}
