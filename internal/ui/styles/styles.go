// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stepflow/internal/workflow"
)

// Derived styles. rebuildStyles refreshes them after a theme change.
var (
	TitleStyle        lipgloss.Style
	SubtitleStyle     lipgloss.Style
	MutedStyle        lipgloss.Style
	ErrorStyle        lipgloss.Style
	SuccessStyle      lipgloss.Style
	WarningStyle      lipgloss.Style
	SelectedStyle     lipgloss.Style
	ToolBadgeStyle    lipgloss.Style
	AgentBadgeStyle   lipgloss.Style
	DiffInsertStyle   lipgloss.Style
	DiffDeleteStyle   lipgloss.Style
	HelpStyle         lipgloss.Style
	PrimaryButton     lipgloss.Style
	SecondaryButton   lipgloss.Style
	ConfidenceHigh    lipgloss.Style
	ConfidenceMedium  lipgloss.Style
	ConfidenceLow     lipgloss.Style
	StatusMessageInfo lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	SubtitleStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	SelectedStyle = lipgloss.NewStyle().Background(SelectionBackgroundColor)
	ToolBadgeStyle = lipgloss.NewStyle().Foreground(ToolBadgeColor)
	AgentBadgeStyle = lipgloss.NewStyle().Foreground(AgentBadgeColor).Italic(true)
	DiffInsertStyle = lipgloss.NewStyle().Foreground(DiffInsertColor).Underline(true)
	DiffDeleteStyle = lipgloss.NewStyle().Foreground(DiffDeleteColor).Strikethrough(true)
	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	PrimaryButton = lipgloss.NewStyle().
		Foreground(ButtonTextColor).
		Background(ButtonBackgroundColor).
		Bold(true).
		Padding(0, 2)
	SecondaryButton = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 2)
	ConfidenceHigh = lipgloss.NewStyle().Foreground(ConfidenceHighColor)
	ConfidenceMedium = lipgloss.NewStyle().Foreground(ConfidenceMediumColor)
	ConfidenceLow = lipgloss.NewStyle().Foreground(ConfidenceLowColor).Bold(true)
	StatusMessageInfo = lipgloss.NewStyle().Foreground(TextSecondaryColor).Italic(true)
}

// ConfidenceStyle picks the style for a badge level.
func ConfidenceStyle(b workflow.Badge) lipgloss.Style {
	switch b {
	case workflow.BadgeReview:
		return ConfidenceLow
	case workflow.BadgeCaution:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
