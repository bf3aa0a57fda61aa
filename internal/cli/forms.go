package cli

import (
	"fmt"

	"github.com/alexanderramin/promptblocks/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// promptHuhTheme returns a huh theme matching the formatter palette.
func promptHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// clarificationForm builds one optional text field per question. answers
// must have the same length as questions.
func clarificationForm(questions []string, answers []string) *huh.Form {
	fields := make([]huh.Field, 0, len(questions))
	for i, q := range questions {
		fields = append(fields, huh.NewInput().
			Title(q).
			Description(fmt.Sprintf("Question %d of %d, leave blank to skip", i+1, len(questions))).
			Value(&answers[i]))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(promptHuhTheme()).
		WithShowHelp(false)
}

// intentForm asks for the free-text description AI Fill starts from.
func intentForm(intent *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What should the prompt do?").
				Placeholder("e.g. a friendly email asking my team for weekly updates").
				Value(intent).
				Validate(func(s string) error {
					if len(s) == 0 {
						return fmt.Errorf("describe what you want the prompt to do")
					}
					return nil
				}),
		),
	).WithTheme(promptHuhTheme()).WithShowHelp(false)
}

// saveForm collects the optional name for a saved prompt.
func saveForm(name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name (blank to use the derived title)").
				Value(name),
		),
	).WithTheme(promptHuhTheme()).WithShowHelp(false)
}
