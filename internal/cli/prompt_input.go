package cli

import (
	"fmt"
	"io"
	"strings"
)

// confirmIO prints message to out and reads a yes/no reply from in. An empty
// reply selects defaultYes.
func confirmIO(in io.Reader, out io.Writer, message string, defaultYes bool) bool {
	if out != nil {
		fmt.Fprint(out, message)
	}

	text, err := readPromptLine(in)
	if err != nil {
		return false
	}

	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return defaultYes
	}
	return text == "y" || text == "yes"
}

// readAnswersIO asks each question in turn and reads one line per answer.
// Reading stops at end of input; unanswered questions get an empty answer.
func readAnswersIO(in io.Reader, out io.Writer, questions []string) []string {
	answers := make([]string, len(questions))
	for i, q := range questions {
		if out != nil {
			fmt.Fprintf(out, "%s\n> ", q)
		}
		text, err := readPromptLine(in)
		answers[i] = strings.TrimSpace(text)
		if err != nil {
			break
		}
	}
	return answers
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}
