// Package input implements the prompt entry screen.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/ui/styles"
)

const maxPromptLength = 2000

type keyMap struct {
	Submit  key.Binding
	Newline key.Binding
	Example key.Binding
	Clear   key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.Example, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	Newline: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline")),
	Example: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "example")),
	Clear:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// Model is the input screen.
type Model struct {
	svc      mode.Services
	textarea textarea.Model
	help     help.Model
	example  int // index of the next example tab inserts
	width    int
	height   int
}

// New creates the input screen with the store's current prompt.
func New(svc mode.Services) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the workflow you want to automate..."
	ta.CharLimit = maxPromptLength
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(5)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.SetValue(svc.Store.State().CurrentPrompt)
	ta.Focus()

	return Model{svc: svc, textarea: ta, help: help.New()}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates the layout.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.textarea.SetWidth(m.contentWidth() - 4)
	m.help.Width = width
	return m
}

// Focus gives the textarea keyboard focus and loads the stored prompt.
func (m Model) Focus() (Model, tea.Cmd) {
	m.textarea.SetValue(m.svc.Store.State().CurrentPrompt)
	return m, m.textarea.Focus()
}

// Value returns the prompt text.
func (m Model) Value() string {
	return m.textarea.Value()
}

// CharCount counts user-perceived characters.
func (m Model) CharCount() int {
	return uniseg.GraphemeClusterCount(m.textarea.Value())
}

// Update handles keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Example):
			return m.nextExample(), nil
		case key.Matches(msg, keys.Clear):
			m.textarea.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit asks for a generation. Blank prompts and submits while a call is
// already running are ignored.
func (m Model) submit() (Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.textarea.Value())
	if prompt == "" || m.svc.Store.IsLoading() {
		return m, nil
	}
	return m, func() tea.Msg { return mode.GenerateRequestMsg{Prompt: prompt} }
}

func (m Model) nextExample() Model {
	if len(m.svc.Examples) == 0 {
		return m
	}
	m.textarea.SetValue(m.svc.Examples[m.example%len(m.svc.Examples)])
	m.example = (m.example + 1) % len(m.svc.Examples)
	return m
}

func (m Model) contentWidth() int {
	return min(max(m.width-4, 30), 90)
}

// View renders the screen.
func (m Model) View() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("What would you like to automate?"))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Describe a workflow in plain language and a draft will be generated for you to review."))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Width(width - 2)
	b.WriteString(box.Render(m.textarea.View()))
	b.WriteString("\n")

	counter := fmt.Sprintf("%d/%d", m.CharCount(), maxPromptLength)
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(styles.MutedStyle.Render(counter)))
	b.WriteString("\n\n")

	if len(m.svc.Examples) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Try an example (tab):"))
		b.WriteString("\n")
		for _, ex := range m.svc.Examples {
			b.WriteString(styles.MutedStyle.Render("  • " + styles.TruncateString(ex, width-4)))
			b.WriteString("\n")
		}
	}

	if m.svc.Config.UI.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
