// Package confirmation implements the final review screen: a rendered
// summary of the workflow with approve, copy and back actions.
package confirmation

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/mode/shared"
	"github.com/zjrosen/stepflow/internal/ui/shared/table"
	"github.com/zjrosen/stepflow/internal/ui/styles"
	"github.com/zjrosen/stepflow/internal/workflow"
)

type keyMap struct {
	Approve key.Binding
	Back    key.Binding
	Copy    key.Binding
	Toggle  key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Back, k.Copy, k.Toggle, k.Up, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Approve: key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "approve")),
	Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back to editing")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy yaml")),
	Toggle:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "summary/table")),
	Up:      key.NewBinding(key.WithKeys("k", "up", "pgup"), key.WithHelp("j/k", "scroll")),
	Down:    key.NewBinding(key.WithKeys("j", "down", "pgdown")),
	Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

var columns = []table.ColumnConfig{
	{Key: "order", Header: "#", Width: 3, AlignRight: true},
	{Key: "title", Header: "Step", MinWidth: 16},
	{Key: "tool", Header: "Tool", MinWidth: 8, MaxWidth: 20, HideBelow: 60},
	{Key: "agent", Header: "Agent", MinWidth: 8, MaxWidth: 20, HideBelow: 80},
	{Key: "confidence", Header: "Confidence", Width: 12},
}

// Model is the confirmation screen.
type Model struct {
	svc       mode.Services
	viewport  viewport.Model
	help      help.Model
	summary   workflow.Summary
	steps     []workflow.Step
	showTable bool
	approving bool
	width     int
	height    int
}

// New creates the confirmation screen for the store's current workflow.
func New(svc mode.Services) Model {
	m := Model{svc: svc, viewport: viewport.New(0, 0), help: help.New()}
	return m.Refresh()
}

// Refresh re-reads the workflow from the store.
func (m Model) Refresh() Model {
	state := m.svc.Store.State()
	m.steps = state.Steps
	m.summary = workflow.Summarize(state.CurrentPrompt, state.Steps, m.svc.Thresholds(), m.svc.MinutesPerStep())
	m.approving = false
	return m.layout()
}

// Summary returns the figures shown on the screen.
func (m Model) Summary() workflow.Summary {
	return m.summary
}

// ShowingTable reports whether the step table replaces the summary.
func (m Model) ShowingTable() bool {
	return m.showTable
}

// SetSize updates the layout.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m.layout()
}

func (m Model) bodyHeight() int {
	h := m.height - 4 // title, stats, blank, buttons
	if m.svc.Config.UI.ShowHelp {
		h--
	}
	if m.summary.HasLowConfidence() {
		h -= 2
	}
	return max(h, 3)
}

func (m Model) layout() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()

	var content string
	if m.showTable {
		content = m.renderTable()
	} else {
		content = m.renderSummary()
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	return m
}

func (m Model) renderSummary() string {
	out, err := m.svc.Markdown.Render(m.summary.Markdown(m.steps), m.width)
	if err != nil {
		log.ErrorErr(log.CatUI, "Markdown render failed", err)
		return m.summary.Markdown(m.steps)
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderTable() string {
	thresholds := m.svc.Thresholds()
	rows := make([]table.Row, len(m.steps))
	for i, step := range m.steps {
		rows[i] = table.Row{
			"order":      strconv.Itoa(step.Order),
			"title":      step.Title,
			"tool":       step.Tool,
			"agent":      step.Agent,
			"confidence": styles.FormatConfidence(step.Confidence, thresholds),
		}
	}
	return table.New(columns).SetRows(rows).SetWidth(m.width).View()
}

// Update handles keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Approve):
			return m.approve()
		case key.Matches(msg, keys.Back):
			m.svc.Store.SetCurrentScreen(workflow.ScreenEditing)
			return m, nil
		case key.Matches(msg, keys.Copy):
			return m, m.copyYAML()
		case key.Matches(msg, keys.Toggle):
			m.showTable = !m.showTable
			return m.layout(), nil
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) approve() (Model, tea.Cmd) {
	if m.approving {
		return m, nil
	}
	if len(m.steps) == 0 {
		return m, mode.Status(mode.ErrorText(workflow.ErrNoSteps), true)
	}
	m.approving = true
	return m, mode.ApproveCmd(context.Background(), m.svc)
}

func (m Model) copyYAML() tea.Cmd {
	if m.svc.Clipboard == nil {
		return mode.Status("Clipboard unavailable", true)
	}
	var buf bytes.Buffer
	doc := workflow.Document{Prompt: m.summary.Prompt, Steps: m.steps}
	if err := doc.EncodeYAML(&buf); err != nil {
		return mode.Status(err.Error(), true)
	}
	return shared.CopyCmd(m.svc.Clipboard, "workflow YAML", buf.String())
}

func (m Model) renderStats() string {
	sep := styles.MutedStyle.Render("  │  ")
	parts := []string{
		fmt.Sprintf("%d steps", m.summary.StepCount),
		"~" + workflow.FormatDuration(m.summary.EstimatedMinutes),
		"avg " + workflow.FormatConfidence(m.summary.AvgConfidence),
		"tools: " + strings.Join(m.summary.Tools, ", "),
	}
	return styles.TruncateString(strings.Join(parts, sep), m.width)
}

func (m Model) renderWarning() string {
	titles := make([]string, len(m.summary.LowConfidence))
	for i, s := range m.summary.LowConfidence {
		titles[i] = s.Title
	}
	text := fmt.Sprintf("⚠ %d step(s) below %s confidence: %s",
		len(titles), workflow.FormatConfidence(m.svc.Thresholds().Review), strings.Join(titles, ", "))
	return styles.WarningStyle.Render(styles.TruncateString(text, m.width))
}

// View renders the screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Ready to approve?"))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	if m.summary.HasLowConfidence() {
		b.WriteString(m.renderWarning())
		b.WriteString("\n\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	approve := styles.PrimaryButton.Render("Approve")
	if m.approving {
		approve = styles.SecondaryButton.Render("Approving…")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, approve, "  ", styles.SecondaryButton.Render("Back to Editing")))

	if m.svc.Config.UI.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}
