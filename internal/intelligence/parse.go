package intelligence

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/llm"
)

var (
	listedQuestionRe = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+\?)\s*$`)

	// **Task:** and **Task**: are both accepted.
	blockLabelRe = regexp.MustCompile(`(?i)\*\*\s*(Task|Tone|Format|Persona|Constraint)\s*(?::\s*\*\*|\*\*\s*:)`)
)

// generatedBlockTypes are the labels the generation pass may emit, in the
// order blocks are created.
var generatedBlockTypes = []domain.BlockType{
	domain.BlockTask,
	domain.BlockTone,
	domain.BlockFormat,
	domain.BlockPersona,
	domain.BlockConstraint,
}

// NeedsNoClarification reports whether the model signalled that the request
// can go straight to generation.
func NeedsNoClarification(text string) bool {
	return strings.Contains(text, NoClarificationSentinel)
}

// ExtractClarificationQuestions pulls questions out of a clarification reply.
// Numbered or bulleted lines ending in "?" win; otherwise any line ending in
// "?" that is not a bold label is used. At most MaxClarificationQuestions are
// returned.
func ExtractClarificationQuestions(text string) []string {
	lines := strings.Split(llm.StripCodeFences(text), "\n")

	var questions []string
	for _, line := range lines {
		if m := listedQuestionRe.FindStringSubmatch(line); m != nil {
			questions = append(questions, strings.TrimSpace(m[1]))
		}
	}
	if len(questions) == 0 {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "**") || !strings.HasSuffix(line, "?") {
				continue
			}
			questions = append(questions, line)
		}
	}
	if len(questions) > MaxClarificationQuestions {
		questions = questions[:MaxClarificationQuestions]
	}
	return questions
}

// CombineAnswers appends answered questions to the original input. Unanswered
// questions are left out; with no answers the input is returned unchanged.
func CombineAnswers(input string, questions, answers []string) string {
	var pairs []string
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		a := strings.TrimSpace(answers[i])
		if a == "" {
			continue
		}
		pairs = append(pairs, q+" "+a)
	}
	if len(pairs) == 0 {
		return input
	}
	return input + ". " + strings.Join(pairs, ". ")
}

// ParseLabeledBlocks turns a generation reply into blocks. Each label's
// content runs until the next recognised label or the end of the text, so the
// order labels appear in does not matter. Blocks come back in Task, Tone,
// Format, Persona, Constraint order; labels with no content are skipped.
func ParseLabeledBlocks(text string) []domain.Block {
	text = llm.StripCodeFences(text)
	matches := blockLabelRe.FindAllStringSubmatchIndex(text, -1)

	found := make(map[domain.BlockType]string, len(generatedBlockTypes))
	for i, m := range matches {
		label := canonicalLabel(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(text[m[1]:end])
		if content == "" {
			continue
		}
		if _, seen := found[label]; !seen {
			found[label] = content
		}
	}

	var blocks []domain.Block
	for _, bt := range generatedBlockTypes {
		if content, ok := found[bt]; ok {
			blocks = append(blocks, domain.NewBlock(string(bt), content))
		}
	}
	return blocks
}

func canonicalLabel(raw string) domain.BlockType {
	for _, bt := range generatedBlockTypes {
		if strings.EqualFold(string(bt), raw) {
			return bt
		}
	}
	return domain.BlockType(raw)
}
