// Package nosteps provides the empty state shown on the editing screen once
// every step has been deleted.
package nosteps

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stepflow/internal/ui/shared/chainart"
	"github.com/zjrosen/stepflow/internal/ui/styles"
)

// Model holds the empty view state.
type Model struct {
	width   int
	height  int
	canUndo bool
}

// New creates an empty view.
func New() Model {
	return Model{}
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// SetCanUndo toggles the undo hint.
func (m Model) SetCanUndo(canUndo bool) Model {
	m.canUndo = canUndo
	return m
}

// View renders the empty state centered in the available area.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimaryColor).
		MarginTop(1)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondaryColor)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true).
		MarginTop(1)

	var content strings.Builder
	content.WriteString(chainart.BuildBrokenChain())
	content.WriteString("\n\n")
	content.WriteString(titleStyle.Render("This workflow has no steps left"))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("A workflow needs at least one step before it can be approved."))
	content.WriteString("\n\n")
	content.WriteString(messageStyle.Render("  a  add a blank step"))
	content.WriteString("\n")
	if m.canUndo {
		content.WriteString(messageStyle.Render("  u  undo the last change"))
		content.WriteString("\n")
	}
	content.WriteString(messageStyle.Render("  b  go back and describe the workflow again"))
	content.WriteString("\n")
	content.WriteString(hintStyle.Render("Press q to quit"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content.String())
}
