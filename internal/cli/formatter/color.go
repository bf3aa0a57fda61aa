package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// blockTypeStyles tints each known block type; unknown types render dim.
var blockTypeStyles = map[domain.BlockType]lipgloss.Style{
	domain.BlockTask:            StyleHeader,
	domain.BlockTone:            StylePurple,
	domain.BlockFormat:          StyleBlue,
	domain.BlockPersona:         StyleGreen,
	domain.BlockConstraint:      StyleRed,
	domain.BlockAudience:        StyleYellow,
	domain.BlockStyle:           StylePurple,
	domain.BlockExamples:        StyleBlue,
	domain.BlockCreativityLevel: StyleYellow,
}

// BlockTypeColor returns the style used for a block type label.
func BlockTypeColor(blockType string) lipgloss.Style {
	if s, ok := blockTypeStyles[domain.BlockType(blockType)]; ok {
		return s
	}
	return StyleDim
}

// BlockTypeBadge renders a block type label such as "■ Task".
func BlockTypeBadge(blockType string) string {
	if strings.TrimSpace(blockType) == "" {
		return StyleDim.Render("■ (untyped)")
	}
	return BlockTypeColor(blockType).Render("■ " + blockType)
}

// ColorSwatch renders a small block in a saved prompt's custom color. Values
// that are not hex colors fall back to the default prompt color.
func ColorSwatch(hex string) string {
	if !hexColorRe.MatchString(hex) {
		hex = domain.DefaultPromptColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

// PinIndicator returns a marker for pinned prompts and padding otherwise.
func PinIndicator(pinned bool) string {
	if pinned {
		return StyleYellow.Render("★")
	}
	return " "
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a green check line such as "✔ Saved".
func Success(text string) string {
	return StyleGreen.Render("✔ " + text)
}

// Warning renders a yellow warning line.
func Warning(text string) string {
	return StyleYellow.Render("! " + text)
}
