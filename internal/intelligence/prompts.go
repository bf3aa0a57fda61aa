package intelligence

import "strings"

// NoClarificationSentinel is the marker the model emits when the request is
// clear enough to generate blocks directly.
const NoClarificationSentinel = "NO_CLARIFICATION_NEEDED"

// MaxClarificationQuestions caps how many questions are put to the user.
const MaxClarificationQuestions = 3

// clarifySystemPrompt asks the model whether the user's intent needs follow-up.
const clarifySystemPrompt = `You help people write structured prompts for AI assistants.
Read the user's request below and decide whether you need more information to write
a good prompt for it.

If the request is clear enough, respond with exactly:
` + NoClarificationSentinel + `

Otherwise respond with 1 to 3 short clarification questions, one per line, numbered
"1.", "2.", "3.". Each question must end with a question mark. Do not add any other text.
Ask only about details that would change the prompt (audience, tone, format, length).
Write the questions in the same language as the user's request.`

// generateSystemPrompt asks the model for labeled block sections.
const generateSystemPrompt = `You help people write structured prompts for AI assistants.
Turn the user's request below into up to 5 labeled sections, in this order:

**Task:** what the assistant should do
**Tone:** the voice or attitude of the answer
**Format:** the shape of the answer (list, email, table, length)
**Persona:** the role the assistant should adopt
**Constraint:** limits the answer must respect

Rules:
- Use the bold label exactly as shown, followed by the section content.
- Write the content in the same language as the user's request.
- Only include information that is stated or clearly implied by the request. Do not invent details.
- Omit any section the request gives no basis for. Never output an empty section or a placeholder.
- Output only the labeled sections, with no introduction or closing remarks.`

func buildClarifyPrompt(input string) string {
	return joinPrompt(clarifySystemPrompt, input)
}

func buildGeneratePrompt(input string) string {
	return joinPrompt(generateSystemPrompt, input)
}

func joinPrompt(instruction, input string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nUser request:\n")
	b.WriteString(input)
	return b.String()
}
