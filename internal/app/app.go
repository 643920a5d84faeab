// Package app is the root bubbletea model. It owns one controller per
// screen and switches between them following the store's current screen.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/mode/confirmation"
	"github.com/zjrosen/stepflow/internal/mode/editing"
	"github.com/zjrosen/stepflow/internal/mode/input"
	"github.com/zjrosen/stepflow/internal/mode/loading"
	"github.com/zjrosen/stepflow/internal/mode/shared"
	"github.com/zjrosen/stepflow/internal/ui/styles"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// StatusTimeout is how long a status message stays visible.
const StatusTimeout = 4 * time.Second

type clearStatusMsg struct{ id int }

// Option configures the app.
type Option func(*Model)

// WithEvents subscribes the app to store events.
func WithEvents(b *EventBridge) Option {
	return func(m *Model) { m.events = b }
}

// WithConfigWatch reloads the theme from path whenever changes fires.
func WithConfigWatch(path string, changes <-chan struct{}) Option {
	return func(m *Model) {
		m.configPath = path
		m.configChanges = changes
	}
}

// Model is the root model.
type Model struct {
	svc    mode.Services
	screen workflow.Screen
	// generating is set from the generate request until its result
	// arrives, covering the gap before the store flips its loading flag.
	generating bool

	input   input.Model
	loading loading.Model
	editing editing.Model
	confirm confirmation.Model

	status    string
	statusErr bool
	statusID  int

	events        *EventBridge
	configPath    string
	configChanges <-chan struct{}

	width  int
	height int
}

// New creates the app on the store's current screen.
func New(svc mode.Services, opts ...Option) Model {
	m := Model{
		svc:     svc,
		screen:  svc.Store.State().CurrentScreen,
		input:   input.New(svc),
		loading: loading.New(svc),
		editing: editing.New(svc),
		confirm: confirmation.New(svc),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the cursor blink and the event subscriptions.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.input.Init(), waitForChange(m.configChanges)}
	if m.events != nil {
		cmds = append(cmds, m.events.Wait())
	}
	return tea.Batch(cmds...)
}

// Screen returns the screen being shown.
func (m Model) Screen() workflow.Screen {
	return m.screen
}

// Generating reports whether the loading screen is up.
func (m Model) Generating() bool {
	return m.generating
}

// Status returns the visible status message.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Update routes messages to the active screen and follows screen changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m, enter := m.syncScreen()
	return m, tea.Batch(cmd, enter)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case mode.GenerateRequestMsg:
		if m.generating {
			return m, nil
		}
		m.generating = true
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Start(msg.Prompt)
		log.Info(log.CatUI, "Generating workflow", "prompt_len", len(msg.Prompt))
		return m, tea.Batch(cmd, mode.GenerateCmd(context.Background(), m.svc.Store, msg.Prompt))

	case mode.GenerateDoneMsg:
		m.generating = false
		switch {
		case msg.Err == nil:
			m.editing = editing.New(m.svc).SetSize(m.width, m.bodyHeight())
			return m, nil
		case errors.Is(msg.Err, workflow.ErrCanceled):
			return m, nil
		default:
			log.ErrorErr(log.CatUI, "Generation failed", msg.Err)
			return m.setStatus(mode.ErrorText(msg.Err), true)
		}

	case loading.CanceledMsg:
		m.generating = false
		return m.setStatus("Generation canceled", false)

	case mode.ReviseDoneMsg:
		var cmd tea.Cmd
		m.editing, cmd = m.editing.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		if m.generating {
			m.loading, cmd = m.loading.Update(msg)
		} else {
			m.editing, cmd = m.editing.Update(msg)
		}
		return m, cmd

	case mode.ApprovedMsg:
		switch {
		case msg.Approval == nil:
			return m.setStatus(mode.ErrorText(msg.Err), true)
		case msg.Err != nil:
			return m.setStatus("Approved, but the archive write failed: "+msg.Err.Error(), true)
		default:
			return m.setStatus(fmt.Sprintf("Workflow approved (%s)", msg.Approval.ShortID()), false)
		}

	case shared.CopiedMsg:
		if msg.Err != nil {
			return m.setStatus("Copy failed: "+msg.Err.Error(), true)
		}
		return m.setStatus("Copied "+msg.What, false)

	case shared.HookExecutedMsg:
		if msg.Err != nil {
			return m.setStatus(fmt.Sprintf("Hook %q failed: %v", msg.Name, msg.Err), true)
		}
		return m, nil

	case mode.StatusMsg:
		return m.setStatus(msg.Text, msg.IsError)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case StoreEventMsg:
		log.Debug(log.CatUI, "store event", "type", msg.Event.Type, "step", msg.Event.StepID)
		return m, m.events.Wait()

	case ConfigChangedMsg:
		var cmd tea.Cmd
		m, cmd = m.reloadConfig()
		return m, tea.Batch(cmd, waitForChange(m.configChanges))
	}

	return m.forward(msg)
}

// forward hands msg to the active screen.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.generating {
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	}
	switch m.screen {
	case workflow.ScreenEditing:
		m.editing, cmd = m.editing.Update(msg)
	case workflow.ScreenConfirmation:
		m.confirm, cmd = m.confirm.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "q":
		if !m.generating && m.screen != workflow.ScreenInput && !m.editing.HasModal() {
			return m.quit()
		}
	}
	return m.forward(msg)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.svc.Store.Cancel()
	return m, tea.Quit
}

// syncScreen switches controllers when the store moved to another screen.
func (m Model) syncScreen() (Model, tea.Cmd) {
	next := m.svc.Store.State().CurrentScreen
	if next == m.screen {
		return m, nil
	}
	log.Debug(log.CatUI, "screen changed", "from", m.screen, "to", next)
	m.screen = next

	var cmd tea.Cmd
	switch next {
	case workflow.ScreenInput:
		m.input, cmd = m.input.Focus()
	case workflow.ScreenEditing:
		m.editing = m.editing.Refresh()
	case workflow.ScreenConfirmation:
		m.confirm = m.confirm.Refresh()
	}
	return m, cmd
}

func (m Model) setStatus(text string, isError bool) (Model, tea.Cmd) {
	m.status = text
	m.statusErr = isError
	m.statusID++
	id := m.statusID
	if isError {
		log.Warn(log.CatUI, "status", "text", text)
	}
	return m, tea.Tick(StatusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

func (m Model) reloadConfig() (Model, tea.Cmd) {
	cfg, err := config.Load(m.configPath)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", m.configPath)
		return m.setStatus("Config reload failed: "+err.Error(), true)
	}
	if err := styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)); err != nil {
		log.ErrorErr(log.CatConfig, "Theme reload failed", err)
		return m.setStatus("Theme reload failed: "+err.Error(), true)
	}
	log.Info(log.CatConfig, "Theme reloaded", "preset", cfg.Theme.Preset)
	// Cached renders hold the old colors.
	m = m.resize(m.width, m.height)
	return m.setStatus("Theme reloaded", false)
}

func (m Model) bodyHeight() int {
	return max(m.height-1, 1)
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height
	h := m.bodyHeight()
	m.input = m.input.SetSize(width, h)
	m.loading = m.loading.SetSize(width, h)
	m.editing = m.editing.SetSize(width, h)
	m.confirm = m.confirm.SetSize(width, h)
	return m
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	style := styles.StatusMessageInfo
	if m.statusErr {
		style = styles.ErrorStyle
	}
	return style.Render(styles.TruncateString(m.status, m.width))
}

// View renders the active screen with the status line below it.
func (m Model) View() string {
	var body string
	switch {
	case m.generating:
		body = m.loading.View()
	case m.screen == workflow.ScreenEditing:
		body = m.editing.View()
	case m.screen == workflow.ScreenConfirmation:
		body = m.confirm.View()
	default:
		body = m.input.View()
	}
	if m.height > 0 {
		body = lipgloss.NewStyle().MaxHeight(m.bodyHeight()).Render(body)
	}
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus()))
}
