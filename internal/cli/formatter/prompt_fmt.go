package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/promptblocks/internal/domain"
)

const (
	nameWidth    = 32
	previewWidth = 48
)

// FormatPromptList renders saved prompts in the order given, which callers
// keep pinned-first.
func FormatPromptList(prompts []domain.PromptSnapshot, now time.Time) string {
	if len(prompts) == 0 {
		return Dim("No saved prompts. Save the builder with: promptblocks prompt save") + "\n"
	}

	headers := []string{" ", "ID", "NAME", "PREVIEW", "SAVED"}
	rows := make([][]string, 0, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		rows = append(rows, []string{
			PinIndicator(p.IsPinned),
			TruncID(p.ID),
			ColorSwatch(p.CustomColor) + " " + Bold(Truncate(p.DisplayName(), nameWidth)),
			Dim(Truncate(p.Preview, previewWidth)),
			HumanTimestampFrom(p.CreatedAt, now),
		})
	}
	return RenderBox("Saved Prompts", RenderTable(headers, rows))
}

// FormatPromptShow renders a saved prompt's detail card.
func FormatPromptShow(p *domain.PromptSnapshot, now time.Time) string {
	var b strings.Builder

	title := ColorSwatch(p.CustomColor) + " " + StyleBold.Render(p.DisplayName())
	if p.IsPinned {
		title += "  " + PinIndicator(true)
	}
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("ID     "), Dim(p.ID)))
	if p.CustomName != nil && *p.CustomName != p.Title {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("TITLE  "), p.Title))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("COLOR  "), p.CustomColor))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("SAVED  "), HumanTimestampFrom(p.CreatedAt, now)))
	if p.IsPinned && p.PinnedAt != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("PINNED "), HumanTimestampFrom(*p.PinnedAt, now)))
	}

	b.WriteString("\n")
	b.WriteString(Header("Blocks"))
	b.WriteString("\n")
	for _, blk := range p.Blocks {
		b.WriteString(FormatBlock(blk))
	}

	return RenderBox("", b.String())
}
