package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rounded border pieces.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
	borderMiddleLeft  = "├"
	borderMiddleRight = "┤"
)

// Panel is a rounded box with a title on the left of the top edge, an
// optional status on the right, and an optional one-line footer separated
// by a divider.
//
//	╭─ Title ───────── Status ─╮
//	│content                   │
//	├──────────────────────────┤
//	│footer                    │
//	╰──────────────────────────╯
type Panel struct {
	Title   string
	Status  string
	Footer  string
	Width   int
	Height  int // total height including borders
	Focused bool
	// TitleColor defaults to TextPrimaryColor.
	TitleColor lipgloss.TerminalColor
}

// Render draws content inside the panel. Content is clipped to the inner
// area; every line is padded so the right edge lines up.
func (p Panel) Render(content string) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if p.Focused {
		borderColor = BorderFocusColor
	}
	var titleColor lipgloss.TerminalColor = TextPrimaryColor
	if p.TitleColor != nil {
		titleColor = p.TitleColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := max(p.Width-2, 1)
	bodyHeight := max(p.Height-2, 1)
	if p.Footer != "" {
		bodyHeight = max(p.Height-4, 1)
	}

	var b strings.Builder
	b.WriteString(buildDualTitleTopBorder(p.Title, p.Status, innerWidth, borderStyle, titleStyle))
	b.WriteString("\n")
	for _, line := range fitLines(content, innerWidth, bodyHeight) {
		b.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
		b.WriteString("\n")
	}
	if p.Footer != "" {
		b.WriteString(borderStyle.Render(borderMiddleLeft + strings.Repeat(borderHorizontal, innerWidth) + borderMiddleRight))
		b.WriteString("\n")
		footer := fitLines(p.Footer, innerWidth, 1)[0]
		b.WriteString(borderStyle.Render(borderVertical) + footer + borderStyle.Render(borderVertical))
		b.WriteString("\n")
	}
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// fitLines wraps content to width and returns exactly height lines, each
// padded to width.
func fitLines(content string, width, height int) []string {
	rendered := lipgloss.NewStyle().Width(width).Render(content)
	src := strings.Split(rendered, "\n")
	out := make([]string, height)
	for i := range height {
		var line string
		if i < len(src) {
			line = ansi.Truncate(src[i], width, "")
		}
		if w := lipgloss.Width(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		out[i] = line
	}
	return out
}

// buildTopBorder draws "╭─ Title ───╮", dropping the title when it cannot fit.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}
	// "─ " + title + " " needs at least four cells to be worth drawing.
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	display := TruncateString(title, innerWidth-4)
	dashes := max(innerWidth-3-lipgloss.Width(display), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, dashes)+borderTopRight)
}

// buildDualTitleTopBorder draws "╭─ Left ──── Right ─╮". When both titles do
// not fit it falls back to the left title alone.
func buildDualTitleTopBorder(left, right string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if right == "" {
		return buildTopBorder(left, innerWidth, borderStyle, titleStyle)
	}
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}

	lw, rw := lipgloss.Width(left), lipgloss.Width(right)
	var dashes int
	if left == "" {
		dashes = innerWidth - rw - 3
	} else {
		dashes = innerWidth - lw - rw - 6
	}
	if dashes < 1 {
		return buildTopBorder(left, innerWidth, borderStyle, titleStyle)
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	if left != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(left))
		b.WriteString(borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, dashes)))
	b.WriteString(borderStyle.Render(" "))
	b.WriteString(titleStyle.Render(right))
	b.WriteString(borderStyle.Render(" " + borderHorizontal + borderTopRight))
	return b.String()
}

// TruncateString shortens s to maxWidth cells, ending in "..." when cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}
