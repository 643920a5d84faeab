// Package editing implements the step review screen: select, reorder,
// edit, revise, add and delete steps, with undo and redo.
package editing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/ui/nosteps"
	"github.com/zjrosen/stepflow/internal/ui/shared/editor"
	"github.com/zjrosen/stepflow/internal/ui/shared/modal"
	"github.com/zjrosen/stepflow/internal/ui/shared/picker"
	"github.com/zjrosen/stepflow/internal/ui/styles"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// Modal tags.
const (
	tagDelete = "delete:"
	tagRename = "rename:"
	tagReset  = "reset"
)

const (
	diffPaneHeight = 8
	headerHeight   = 3
	zonePrefix     = "step:"
)

// NewStepTemplate is what "add" appends.
func NewStepTemplate() workflow.Step {
	return workflow.Step{
		Title:       "New Step",
		Description: "Describe what this step should do...",
		Tool:        "Custom",
		Agent:       "User",
		Reasoning:   "User-added step for custom workflow requirements",
		Confidence:  1.0,
	}
}

// Model is the editing screen.
type Model struct {
	svc      mode.Services
	cursor   int
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	empty    nosteps.Model
	modal    *modal.Model
	picker   picker.Model

	// pickerField is "tool" or "agent" while the picker is open for pickerStep.
	pickerField string
	pickerStep  string

	revising     string // id of the step being revised
	lastRevision *store.Revision
	showDiff     bool

	width  int
	height int
}

// New creates the editing screen.
func New(svc mode.Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.BorderFocusColor)
	return Model{
		svc:      svc,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		spinner:  sp,
		empty:    nosteps.New(),
		picker:   picker.New("Tool"),
		showDiff: true,
	}
}

// SetSize updates the layout.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	if m.modal != nil {
		m.modal.SetSize(width, height)
	}
	return m.layout()
}

// Cursor returns the selected step index.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the selected step.
func (m Model) Selected() (workflow.Step, bool) {
	steps := m.svc.Store.Steps()
	if m.cursor < 0 || m.cursor >= len(steps) {
		return workflow.Step{}, false
	}
	return steps[m.cursor], true
}

// Revising reports the id of the step being revised, if any.
func (m Model) Revising() string {
	return m.revising
}

// HasModal reports whether a dialog or picker is open.
func (m Model) HasModal() bool {
	return m.modal != nil || m.picker.IsActive()
}

// Picker returns the tool/agent picker.
func (m Model) Picker() picker.Model {
	return m.picker
}

// LastRevision returns the most recent completed revision.
func (m Model) LastRevision() (store.Revision, bool) {
	if m.lastRevision == nil {
		return store.Revision{}, false
	}
	return *m.lastRevision, true
}

// Refresh clamps the cursor after the step list changed elsewhere.
func (m Model) Refresh() Model {
	n := len(m.svc.Store.Steps())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
	return m.layout()
}

// Update handles messages for the screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case modal.SubmitMsg:
		return m.handleModalSubmit(msg)

	case modal.CancelMsg:
		m.modal = nil
		return m, nil

	case editor.ExecMsg:
		return m, msg.ExecCmd()

	case editor.FinishedMsg:
		return m.handleEditorFinished(msg)

	case mode.ReviseDoneMsg:
		return m.handleReviseDone(msg)

	case spinner.TickMsg:
		if m.revising == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.picker.IsActive() {
			return m.handlePickerKey(msg)
		}
		if m.modal != nil {
			var cmd tea.Cmd
			*m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	if m.modal != nil {
		var cmd tea.Cmd
		*m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	st := m.svc.Store
	steps := st.Steps()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.layout(), nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(steps)-1 {
			m.cursor++
		}
		return m.layout(), nil

	case key.Matches(msg, keys.MoveUp):
		return m.move(-1)

	case key.Matches(msg, keys.MoveDown):
		return m.move(1)

	case key.Matches(msg, keys.Edit):
		step, ok := m.Selected()
		if !ok {
			return m, nil
		}
		content, err := workflow.MarshalFields(step)
		if err != nil {
			return m, mode.Status(err.Error(), true)
		}
		return m, editor.OpenCmd(step.ID, "stepflow-step-*.yaml", content)

	case key.Matches(msg, keys.Rename):
		step, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m.openModal(modal.Config{
			Title: "Edit step",
			Tag:   tagRename + step.ID,
			Inputs: []modal.InputConfig{
				{Key: "title", Label: "Title", Value: step.Title, MaxLength: 120},
				{Key: "tool", Label: "Tool", Value: step.Tool, MaxLength: 60},
				{Key: "agent", Label: "Agent", Value: step.Agent, MaxLength: 60},
			},
		})

	case key.Matches(msg, keys.Tool):
		return m.openPicker("tool")

	case key.Matches(msg, keys.Agent):
		return m.openPicker("agent")

	case key.Matches(msg, keys.Revise):
		return m.revise()

	case key.Matches(msg, keys.Cancel):
		if m.revising != "" {
			st.Cancel()
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		step, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m.openModal(modal.Config{
			Title:        "Delete step",
			Message:      fmt.Sprintf("Delete %q? You can undo this.", step.Title),
			ConfirmLabel: "Delete",
			Danger:       true,
			Tag:          tagDelete + step.ID,
		})

	case key.Matches(msg, keys.Add):
		added, err := st.AddStep(NewStepTemplate())
		if err != nil {
			return m, mode.Status(mode.ErrorText(err), true)
		}
		m.cursor = workflow.IndexOf(st.Steps(), added.ID)
		return m.layout(), mode.Status("Added a new step", false)

	case key.Matches(msg, keys.Undo):
		if !st.Undo() {
			return m, mode.Status("Nothing to undo", false)
		}
		return m.Refresh(), mode.Status("Undid last change", false)

	case key.Matches(msg, keys.Redo):
		if !st.Redo() {
			return m, mode.Status("Nothing to redo", false)
		}
		return m.Refresh(), mode.Status("Redid change", false)

	case key.Matches(msg, keys.Diff):
		m.showDiff = !m.showDiff
		return m.layout(), nil

	case key.Matches(msg, keys.Confirm):
		if len(steps) == 0 {
			return m, mode.Status(mode.ErrorText(workflow.ErrNoSteps), true)
		}
		if m.revising != "" {
			return m, mode.Status(mode.ErrorText(workflow.ErrBusy), true)
		}
		st.SetCurrentScreen(workflow.ScreenConfirmation)
		return m, nil

	case key.Matches(msg, keys.Back):
		if m.revising != "" {
			st.Cancel()
		}
		st.SetCurrentScreen(workflow.ScreenInput)
		return m, nil

	case key.Matches(msg, keys.Reset):
		return m.openModal(modal.Config{
			Title:        "Start over",
			Message:      "Discard this workflow and its history and return to the prompt?",
			ConfirmLabel: "Start over",
			Danger:       true,
			Tag:          tagReset,
		})
	}
	return m, nil
}

func (m Model) openModal(cfg modal.Config) (Model, tea.Cmd) {
	md := modal.New(cfg)
	md.SetSize(m.width, m.height)
	m.modal = &md
	return m, md.Init()
}

// move shifts the selected step by delta, keeping it selected.
func (m Model) move(delta int) (Model, tea.Cmd) {
	if err := m.svc.Store.ReorderSteps(m.cursor, m.cursor+delta); err != nil {
		var oor *workflow.IndexOutOfRangeError
		if errors.As(err, &oor) {
			return m, nil
		}
		return m, mode.Status(mode.ErrorText(err), true)
	}
	m.cursor += delta
	return m.layout(), nil
}

func (m Model) revise() (Model, tea.Cmd) {
	step, ok := m.Selected()
	if !ok {
		return m, nil
	}
	if m.revising != "" || m.svc.Store.IsLoading() {
		return m, mode.Status(mode.ErrorText(workflow.ErrBusy), true)
	}
	m.revising = step.ID
	log.Debug(log.CatUI, "Revising step", "id", step.ID)
	return m.layout(), tea.Batch(
		mode.ReviseCmd(context.Background(), m.svc.Store, step.ID),
		m.spinner.Tick,
	)
}

func (m Model) handleReviseDone(msg mode.ReviseDoneMsg) (Model, tea.Cmd) {
	if msg.StepID == m.revising {
		m.revising = ""
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, workflow.ErrCanceled) {
			return m.layout(), mode.Status("Revision canceled", false)
		}
		return m.Refresh(), mode.Status(mode.ErrorText(msg.Err), true)
	}
	rev := msg.Revision
	m.lastRevision = &rev
	m.showDiff = true
	return m.Refresh(), mode.Status("Revised "+rev.After.Title, false)
}

func (m Model) handleModalSubmit(msg modal.SubmitMsg) (Model, tea.Cmd) {
	m.modal = nil
	st := m.svc.Store

	switch {
	case msg.Tag == tagReset:
		st.Reset()
		m.cursor = 0
		m.lastRevision = nil
		m.revising = ""
		return m.layout(), mode.Status("Started over", false)

	case strings.HasPrefix(msg.Tag, tagDelete):
		id := strings.TrimPrefix(msg.Tag, tagDelete)
		if err := st.DeleteStep(id); err != nil {
			return m, mode.Status(mode.ErrorText(err), true)
		}
		return m.Refresh(), mode.Status("Step deleted", false)

	case strings.HasPrefix(msg.Tag, tagRename):
		id := strings.TrimPrefix(msg.Tag, tagRename)
		step, ok := st.Step(id)
		if !ok {
			return m, mode.Status(mode.ErrorText(&workflow.StepNotFoundError{ID: id}), true)
		}
		var patch workflow.StepPatch
		if v := msg.Values["title"]; v != step.Title {
			patch.Title = workflow.Ptr(v)
		}
		if v := msg.Values["tool"]; v != step.Tool {
			patch.Tool = workflow.Ptr(v)
		}
		if v := msg.Values["agent"]; v != step.Agent {
			patch.Agent = workflow.Ptr(v)
		}
		if patch.IsEmpty() {
			return m, nil
		}
		if err := st.UpdateStep(id, patch); err != nil {
			return m, mode.Status(mode.ErrorText(err), true)
		}
		return m.layout(), mode.Status("Step updated", false)
	}
	return m, nil
}

func (m Model) handleEditorFinished(msg editor.FinishedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.ErrorErr(log.CatUI, "External editor failed", msg.Err, "id", msg.Tag)
		return m, mode.Status("Editor failed: "+msg.Err.Error(), true)
	}
	st := m.svc.Store
	step, ok := st.Step(msg.Tag)
	if !ok {
		return m, mode.Status(mode.ErrorText(&workflow.StepNotFoundError{ID: msg.Tag}), true)
	}
	patch, err := workflow.ParseFields(msg.Content, step)
	if err != nil {
		return m, mode.Status(err.Error(), true)
	}
	if patch.IsEmpty() {
		return m, mode.Status("No changes", false)
	}
	if err := st.UpdateStep(step.ID, patch); err != nil {
		return m, mode.Status(mode.ErrorText(err), true)
	}
	return m.layout(), mode.Status("Step updated", false)
}

// openPicker lists the known values for field with usage counts, keeping
// the step's current value selectable even when the pool lacks it.
func (m Model) openPicker(field string) (Model, tea.Cmd) {
	step, ok := m.Selected()
	if !ok {
		return m, nil
	}

	values, current, title := m.svc.Tools, step.Tool, "Tool"
	if field == "agent" {
		values, current, title = m.svc.Agents, step.Agent, "Agent"
	}

	used := map[string]int{}
	for _, s := range m.svc.Store.Steps() {
		if field == "agent" {
			used[s.Agent]++
		} else {
			used[s.Tool]++
		}
	}

	var items []picker.Item
	seen := map[string]bool{}
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		it := picker.Item{Label: v}
		if n := used[v]; n > 0 {
			it.Detail = fmt.Sprintf("%d in use", n)
		}
		items = append(items, it)
	}
	add(current)
	for _, v := range values {
		add(v)
	}

	m.picker = picker.New(title).ActivateAt(items, current)
	m.pickerField = field
	m.pickerStep = step.ID
	return m.layout(), nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var selected *picker.Item
	m.picker, _, selected = m.picker.HandleKey(msg)
	m = m.layout()
	if selected == nil {
		return m, nil
	}

	var patch workflow.StepPatch
	if m.pickerField == "agent" {
		patch.Agent = &selected.Label
	} else {
		patch.Tool = &selected.Label
	}
	step, ok := m.svc.Store.Step(m.pickerStep)
	if !ok {
		return m, mode.Status(mode.ErrorText(&workflow.StepNotFoundError{ID: m.pickerStep}), true)
	}
	if (patch.Agent != nil && *patch.Agent == step.Agent) || (patch.Tool != nil && *patch.Tool == step.Tool) {
		return m, nil
	}
	if err := m.svc.Store.UpdateStep(step.ID, patch); err != nil {
		return m, mode.Status(mode.ErrorText(err), true)
	}
	log.Debug(log.CatUI, "step reassigned", "step", step.ID, m.pickerField, selected.Label)
	return m.layout(), mode.Status("Step updated", false)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.HasModal() || !m.svc.Config.UI.Mouse {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		for i, step := range m.svc.Store.Steps() {
			if z := zone.Get(zonePrefix + step.ID); z != nil && z.InBounds(msg) {
				m.cursor = i
				return m.layout(), nil
			}
		}
	}
	return m, nil
}

// diffVisible reports whether the revision pane takes screen space.
func (m Model) diffVisible() bool {
	return m.showDiff && m.lastRevision != nil
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight
	if m.svc.Config.UI.ShowHelp {
		h--
	}
	if m.diffVisible() {
		h -= diffPaneHeight
	}
	h -= m.picker.Height()
	return max(h, 3)
}

// layout rebuilds the card list and scrolls the selection into view.
func (m Model) layout() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}
	steps := m.svc.Store.Steps()
	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()

	cards := make([]string, len(steps))
	starts := make([]int, len(steps))
	line := 0
	for i, step := range steps {
		cards[i] = m.renderCard(step, i == m.cursor)
		starts[i] = line
		line += lipgloss.Height(cards[i])
	}
	m.viewport.SetContent(strings.Join(cards, "\n"))

	if m.cursor < len(steps) {
		top := starts[m.cursor]
		bottom := top + lipgloss.Height(cards[m.cursor])
		switch {
		case top < m.viewport.YOffset:
			m.viewport.SetYOffset(top)
		case bottom > m.viewport.YOffset+m.viewport.Height:
			m.viewport.SetYOffset(bottom - m.viewport.Height)
		}
	}
	return m
}

func (m Model) renderCard(step workflow.Step, selected bool) string {
	thresholds := m.svc.Thresholds()
	inner := max(m.width-2, 10)

	var body strings.Builder
	body.WriteString(step.Description)
	body.WriteString("\n")
	body.WriteString(styles.ToolBadgeStyle.Render("⚙ " + step.Tool))
	body.WriteString(styles.MutedStyle.Render("  ·  "))
	body.WriteString(styles.AgentBadgeStyle.Render("@" + step.Agent))
	body.WriteString("\n")
	body.WriteString(styles.MutedStyle.Render("why: " + step.Reasoning))
	content := body.String()

	status := styles.FormatConfidence(step.Confidence, thresholds)
	if label := styles.FormatReviewLabel(step.Confidence, thresholds); label != "" {
		status = label + " " + status
	}
	if step.ID == m.revising {
		status = m.spinner.View() + " revising " + status
	}

	lines := lipgloss.Height(lipgloss.NewStyle().Width(inner).Render(content))
	card := styles.Panel{
		Title:   fmt.Sprintf("%d. %s", step.Order, step.Title),
		Status:  status,
		Width:   m.width,
		Height:  lines + 2,
		Focused: selected,
	}.Render(content)
	return zone.Mark(zonePrefix+step.ID, card)
}

func (m Model) renderHeader() string {
	state := m.svc.Store.State()
	undo := styles.MutedStyle.Render("undo")
	if state.CanUndo() {
		undo = styles.SuccessStyle.Render("undo")
	}
	redo := styles.MutedStyle.Render("redo")
	if state.CanRedo() {
		redo = styles.SuccessStyle.Render("redo")
	}
	right := fmt.Sprintf("%d steps  %s %s", len(state.Steps), undo, redo)
	left := styles.TitleStyle.Render("Review your workflow")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	prompt := styles.SubtitleStyle.Render(styles.TruncateString("“"+state.CurrentPrompt+"”", m.width))
	return left + strings.Repeat(" ", gap) + right + "\n" + prompt + "\n"
}

// View renders the screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if len(m.svc.Store.Steps()) == 0 {
		b.WriteString(m.empty.SetSize(m.width, m.bodyHeight()).SetCanUndo(m.svc.Store.CanUndo()).View())
	} else {
		b.WriteString(m.viewport.View())
	}

	if m.diffVisible() {
		b.WriteString("\n")
		b.WriteString(styles.Panel{
			Title:  "Last revision",
			Status: "v hide",
			Width:  m.width,
			Height: diffPaneHeight,
		}.Render(renderRevision(*m.lastRevision, m.width-2)))
	}

	if m.picker.IsActive() {
		b.WriteString("\n")
		b.WriteString(m.picker.View(min(m.width, 60)))
	}

	if m.svc.Config.UI.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys))
	}

	view := b.String()
	if m.modal != nil {
		return m.modal.Overlay(view)
	}
	return view
}
