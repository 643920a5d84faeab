// Package modal provides a small dialog with optional text inputs and
// Save/Cancel buttons, drawn over the current screen.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

// Field identifies what has focus.
type Field int

const (
	FieldInput Field = iota
	FieldSave
	FieldCancel
)

const (
	minModalWidth = 40
	maxModalWidth = 72
)

// InputConfig configures one text input.
type InputConfig struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	MaxLength   int
}

// Config configures a modal. A modal without inputs is a confirmation.
type Config struct {
	Title   string
	Message string
	Inputs  []InputConfig
	// ConfirmLabel overrides "Save" / "Confirm".
	ConfirmLabel string
	// Danger colors the confirm button as destructive.
	Danger bool
	// Tag is echoed in SubmitMsg and CancelMsg.
	Tag string
}

// SubmitMsg is sent when the user confirms. Values is keyed by InputConfig.Key.
type SubmitMsg struct {
	Tag    string
	Values map[string]string
}

// CancelMsg is sent when the user dismisses the modal.
type CancelMsg struct {
	Tag string
}

// Model is the modal state.
type Model struct {
	cfg          Config
	inputs       []textinput.Model
	inputKeys    []string
	inputLabels  []string
	hasInputs    bool
	focusedInput int
	focusedField Field
	width        int
	height       int
}

// New creates a modal. Input modals focus the first input; confirmations
// focus the confirm button.
func New(cfg Config) Model {
	m := Model{cfg: cfg, hasInputs: len(cfg.Inputs) > 0, focusedInput: -1, focusedField: FieldSave}

	for i, in := range cfg.Inputs {
		ti := textinput.New()
		ti.Placeholder = in.Placeholder
		ti.Prompt = ""
		if in.MaxLength > 0 {
			ti.CharLimit = in.MaxLength
		}
		ti.SetValue(in.Value)
		if i == 0 {
			ti.Focus()
		}
		m.inputs = append(m.inputs, ti)
		m.inputKeys = append(m.inputKeys, in.Key)
		m.inputLabels = append(m.inputLabels, in.Label)
	}
	if m.hasInputs {
		m.focusedInput = 0
		m.focusedField = FieldInput
	}
	return m
}

// Tag returns the configured tag.
func (m Model) Tag() string {
	return m.cfg.Tag
}

// Init starts the cursor blinking in input mode.
func (m Model) Init() tea.Cmd {
	if m.hasInputs {
		return textinput.Blink
	}
	return nil
}

// SetSize records the screen size used by Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keys and resizes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		onInput := m.focusedField == FieldInput
		switch msg.String() {
		case "esc":
			return m, m.cancel()
		case "tab", "down":
			return m.focusNext(), nil
		case "shift+tab", "up":
			return m.focusPrev(), nil
		case "left", "right":
			if !onInput {
				if m.focusedField == FieldSave {
					m.focusedField = FieldCancel
				} else {
					m.focusedField = FieldSave
				}
				return m, nil
			}
		case "enter":
			switch m.focusedField {
			case FieldInput:
				return m.focusNext(), nil
			case FieldCancel:
				return m, m.cancel()
			default:
				return m, m.submit()
			}
		case "y":
			if !onInput {
				return m, m.submit()
			}
		case "n":
			if !onInput {
				return m, m.cancel()
			}
		}

		if onInput {
			var cmd tea.Cmd
			m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	values := make(map[string]string, len(m.inputs))
	for i, in := range m.inputs {
		v := strings.TrimSpace(in.Value())
		if v == "" {
			return nil
		}
		values[m.inputKeys[i]] = v
	}
	tag := m.cfg.Tag
	return func() tea.Msg { return SubmitMsg{Tag: tag, Values: values} }
}

func (m Model) cancel() tea.Cmd {
	tag := m.cfg.Tag
	return func() tea.Msg { return CancelMsg{Tag: tag} }
}

func (m Model) focusInput(i int) Model {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focusedInput = i
	if i >= 0 {
		m.focusedField = FieldInput
		m.inputs[i].Focus()
	}
	return m
}

// focusNext cycles inputs -> Save -> Cancel -> first input.
func (m Model) focusNext() Model {
	switch m.focusedField {
	case FieldInput:
		if m.focusedInput < len(m.inputs)-1 {
			return m.focusInput(m.focusedInput + 1)
		}
		m = m.focusInput(-1)
		m.focusedField = FieldSave
	case FieldSave:
		m.focusedField = FieldCancel
	case FieldCancel:
		if m.hasInputs {
			return m.focusInput(0)
		}
		m.focusedField = FieldSave
	}
	return m
}

func (m Model) focusPrev() Model {
	switch m.focusedField {
	case FieldInput:
		if m.focusedInput > 0 {
			return m.focusInput(m.focusedInput - 1)
		}
		m = m.focusInput(-1)
		m.focusedField = FieldCancel
	case FieldCancel:
		m.focusedField = FieldSave
	case FieldSave:
		if m.hasInputs {
			return m.focusInput(len(m.inputs) - 1)
		}
		m.focusedField = FieldCancel
	}
	return m
}

func (m Model) modalWidth() int {
	w := maxModalWidth
	if m.width > 0 {
		w = min(w, m.width-4)
	}
	return max(w, minModalWidth)
}

// View renders the modal box.
func (m Model) View() string {
	width := m.modalWidth()
	inner := width - 4

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.cfg.Title))
	b.WriteString("\n\n")
	if m.cfg.Message != "" {
		b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(styles.TextSecondaryColor).Render(m.cfg.Message))
		b.WriteString("\n\n")
	}

	for i := range m.inputs {
		label := m.inputLabels[i]
		if i == m.focusedInput {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.BorderFocusColor).Bold(true).Render(label))
		} else {
			b.WriteString(styles.SubtitleStyle.Render(label))
		}
		b.WriteString("\n")
		in := m.inputs[i]
		in.Width = inner - 2
		border := styles.BorderDefaultColor
		if i == m.focusedInput {
			border = styles.BorderFocusColor
		}
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(inner - 2).
			Render(in.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderButtons())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Width(width - 2).
		Render(b.String())
}

func (m Model) renderButtons() string {
	confirm := m.cfg.ConfirmLabel
	if confirm == "" {
		confirm = "Confirm"
		if m.hasInputs {
			confirm = "Save"
		}
	}

	confirmStyle := styles.SecondaryButton
	cancelStyle := styles.SecondaryButton
	if m.focusedField == FieldSave {
		confirmStyle = styles.PrimaryButton
		if m.cfg.Danger {
			confirmStyle = confirmStyle.Background(styles.StatusErrorColor)
		}
	}
	if m.focusedField == FieldCancel {
		cancelStyle = styles.PrimaryButton
	}
	return confirmStyle.Render(confirm) + "  " + cancelStyle.Render("Cancel")
}

// Overlay draws the modal centered over background, which should be a full
// screen of m.width x m.height.
func (m Model) Overlay(background string) string {
	fg := m.View()
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < m.height {
		bgLines = append(bgLines, "")
	}

	fgWidth := lipgloss.Width(fg)
	x := max((m.width-fgWidth)/2, 0)
	y := max((len(bgLines)-len(fgLines))/2, 0)

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bg := bgLines[row]
		left := ansi.Truncate(bg, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(bg, x+fgWidth, "")
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}
