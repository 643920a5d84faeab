// Package loading implements the screen shown while a workflow is being
// generated.
package loading

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/ui/shared/chainart"
	"github.com/zjrosen/stepflow/internal/ui/styles"
)

const (
	frameInterval = 300 * time.Millisecond
	chainLinks    = 5
)

// Stages cycled under the spinner while waiting.
var stages = []string{
	"Understanding your request",
	"Picking the right tools",
	"Assigning agents",
	"Estimating confidence",
}

// FrameMsg advances the chain animation.
type FrameMsg struct {
	id int
}

// CanceledMsg is emitted after esc canceled the generation.
type CanceledMsg struct{}

// Model is the loading screen.
type Model struct {
	svc     mode.Services
	spinner spinner.Model
	prompt  string
	frame   int
	id      int // drops ticks from an earlier Start
	width   int
	height  int
}

// New creates the loading screen.
func New(svc mode.Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.BorderFocusColor)
	return Model{svc: svc, spinner: sp}
}

// Start resets the animation for prompt and returns the tick commands.
func (m Model) Start(prompt string) (Model, tea.Cmd) {
	m.prompt = prompt
	m.frame = 0
	m.id++
	return m, tea.Batch(m.spinner.Tick, m.tick())
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return FrameMsg{id: id} })
}

// Prompt returns the prompt being processed.
func (m Model) Prompt() string {
	return m.prompt
}

// Frame returns the animation frame.
func (m Model) Frame() int {
	return m.frame
}

// SetSize updates the layout.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update advances the animation and handles esc.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case FrameMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.frame++
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			if m.svc.Store.Cancel() {
				return m, func() tea.Msg { return CanceledMsg{} }
			}
		}
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	width := min(max(m.width-8, 20), 80)

	stage := stages[(m.frame/4)%len(stages)]

	var b strings.Builder
	b.WriteString(chainart.BuildFlowChain(chainLinks, m.frame))
	b.WriteString("\n\n")
	b.WriteString(styles.TitleStyle.Render("Generating your workflow"))
	b.WriteString("\n\n")
	b.WriteString(m.spinner.View() + " " + styles.SubtitleStyle.Render(stage+"..."))
	b.WriteString("\n\n")
	quoted := wordwrap.String("“"+m.prompt+"”", width)
	b.WriteString(lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Italic(true).Render(quoted))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("esc cancel"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}
