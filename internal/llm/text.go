package llm

import "strings"

// StripCodeFences removes markdown code fence lines (```lang / ```) and keeps
// the text between them. Models sometimes wrap plain answers in fences.
func StripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
