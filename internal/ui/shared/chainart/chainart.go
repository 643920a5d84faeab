// Package chainart draws the step-chain artwork used by the loading screen
// and the empty workflow view.
package chainart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

// Link palette, cycled left to right.
var linkColors = []lipgloss.Color{
	"#54A0FF", // blue
	"#73F59F", // green
	"#FECA57", // yellow
	"#7D56F4", // purple
	"#FF8787", // red
}

const (
	artHeight   = 6
	defaultLink = 5
)

var (
	firstLink = []string{
		"╔═══════╗",
		"║       ╠",
		"║       ╠",
		"╚═══════╝",
	}
	middleLink = []string{
		"╔═══════╗",
		"╣       ╠",
		"╣       ╠",
		"╚═══════╝",
	}
	lastLink = []string{
		"╔═══════╗",
		"╣       ║",
		"╣       ║",
		"╚═══════╝",
	}
	// brokenLink is the gap left where every step was removed.
	brokenLink = []string{
		"    \\│/    ",
		"╔════╲   │   ╱════╗",
		"╣     ╲  │  ╱     ╠",
		"╣     ╱  │  ╲     ╠",
		"╚════╱   │   ╲════╝",
		"    /│\\    ",
	}
	connector = []string{
		"",
		"═══",
		"═══",
		"",
	}
)

// BuildBrokenChain renders a chain with its middle link snapped, shown when a
// workflow has no steps left.
func BuildBrokenChain() string {
	mutedStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	connStyle := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)

	pieces := []string{
		renderLines(padLines(firstLink), lipgloss.NewStyle().Foreground(linkColors[0])),
		renderLines(padLines(connector), connStyle),
		renderLines(padLines(middleLink), lipgloss.NewStyle().Foreground(linkColors[1])),
		renderLines(padLines(connector), connStyle),
		renderLines(brokenLink, mutedStyle),
		renderLines(padLines(connector), connStyle),
		renderLines(padLines(middleLink), lipgloss.NewStyle().Foreground(linkColors[2])),
		renderLines(padLines(connector), connStyle),
		renderLines(padLines(lastLink), lipgloss.NewStyle().Foreground(linkColors[3])),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pieces...)
}

// BuildFlowChain renders n links with the link at frame%n lit up and the
// rest dimmed. Advancing frame animates a pulse travelling along the chain.
// n below 2 falls back to five links.
func BuildFlowChain(n, frame int) string {
	if n < 2 {
		n = defaultLink
	}
	active := frame % n
	if active < 0 {
		active += n
	}

	dimStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	connStyle := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)

	pieces := make([]string, 0, 2*n-1)
	for i := range n {
		lines := middleLink
		switch i {
		case 0:
			lines = firstLink
		case n - 1:
			lines = lastLink
		}
		style := dimStyle
		if i == active {
			style = lipgloss.NewStyle().Foreground(linkColors[i%len(linkColors)]).Bold(true)
		}
		if i > 0 {
			pieces = append(pieces, renderLines(padLines(connector), connStyle))
		}
		pieces = append(pieces, renderLines(padLines(lines), style))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pieces...)
}

// padLines centers lines vertically within artHeight rows.
func padLines(lines []string) []string {
	if len(lines) >= artHeight {
		return lines
	}

	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}

	diff := artHeight - len(lines)
	topPad := diff / 2
	bottomPad := diff - topPad

	emptyLine := strings.Repeat(" ", maxWidth)
	result := make([]string, 0, artHeight)
	for range topPad {
		result = append(result, emptyLine)
	}
	result = append(result, lines...)
	for range bottomPad {
		result = append(result, emptyLine)
	}
	return result
}

func renderLines(lines []string, style lipgloss.Style) string {
	return style.Render(strings.Join(lines, "\n"))
}
