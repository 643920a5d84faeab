package confirmation

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/mode/modetest"
	"github.com/zjrosen/stepflow/internal/mode/shared"
	"github.com/zjrosen/stepflow/internal/workflow"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newModel(t *testing.T) (Model, *modetest.Fixture, []workflow.Step) {
	t.Helper()
	f := modetest.New(t)
	steps := f.Generate(t, "Onboard a new hire")
	f.Store.SetCurrentScreen(workflow.ScreenConfirmation)
	return New(f.Services).SetSize(100, 40), f, steps
}

func TestNew_Summarizes(t *testing.T) {
	m, _, steps := newModel(t)

	s := m.Summary()
	require.Equal(t, "Onboard a new hire", s.Prompt)
	require.Equal(t, len(steps), s.StepCount)
	require.Equal(t, len(steps)*workflow.DefaultMinutesPerStep, s.EstimatedMinutes)
	require.NotEmpty(t, s.Tools)
}

func TestNew_UsesConfiguredMinutes(t *testing.T) {
	f := modetest.New(t)
	steps := f.Generate(t, "x")
	f.Services.Config.UI.MinutesPerStep = 5

	m := New(f.Services)
	require.Equal(t, len(steps)*5, m.Summary().EstimatedMinutes)
}

func TestView_ShowsSummary(t *testing.T) {
	m, _, steps := newModel(t)

	view := ansi.Strip(m.View())

	require.Contains(t, view, "Ready to approve?")
	require.Contains(t, view, "steps")
	require.Contains(t, view, "Approve")
	require.Contains(t, view, "Back to Editing")
	require.Contains(t, view, steps[0].Title)
}

func TestView_LowConfidenceWarning(t *testing.T) {
	f := modetest.New(t)
	steps := f.Generate(t, "x")
	require.NoError(t, f.Store.UpdateStep(steps[0].ID, workflow.StepPatch{Confidence: workflow.Ptr(0.42)}))

	m := New(f.Services).SetSize(120, 40)

	require.True(t, m.Summary().HasLowConfidence())
	view := ansi.Strip(m.View())
	require.Contains(t, view, "below 80% confidence")
	require.Contains(t, view, steps[0].Title)
}

func TestView_ZeroSize(t *testing.T) {
	f := modetest.New(t)
	require.Empty(t, New(f.Services).View())
}

func TestToggle_ShowsTable(t *testing.T) {
	m, _, steps := newModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.ShowingTable())

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Confidence")
	require.Contains(t, view, steps[0].Tool)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.False(t, m.ShowingTable())
}

func TestBack_ReturnsToEditing(t *testing.T) {
	m, f, steps := newModel(t)

	_, cmd := m.Update(keyRune('b'))

	require.Nil(t, cmd)
	require.Equal(t, workflow.ScreenEditing, f.Store.State().CurrentScreen)
	require.Equal(t, steps, f.Store.Steps())
}

func TestEsc_ReturnsToEditing(t *testing.T) {
	m, f, _ := newModel(t)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.Equal(t, workflow.ScreenEditing, f.Store.State().CurrentScreen)
}

func TestApprove_ArchivesAndResets(t *testing.T) {
	m, f, steps := newModel(t)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Contains(t, ansi.Strip(m.View()), "Approving")

	// The store resets as soon as approval starts.
	require.Empty(t, f.Store.Steps())
	require.Equal(t, workflow.ScreenInput, f.Store.State().CurrentScreen)

	msg, ok := cmd().(mode.ApprovedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Equal(t, steps, msg.Approval.Steps)
	require.Len(t, f.Archive.Approvals, 1)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "second approve is ignored")
}

func TestApprove_NoSteps(t *testing.T) {
	f := modetest.New(t)
	m := New(f.Services).SetSize(80, 30)

	_, cmd := m.Update(keyRune('a'))

	require.NotNil(t, cmd)
	msg, ok := cmd().(mode.StatusMsg)
	require.True(t, ok)
	require.True(t, msg.IsError)
	require.Empty(t, f.Archive.Approvals)
}

func TestCopy_WritesYAML(t *testing.T) {
	m, f, steps := newModel(t)

	_, cmd := m.Update(keyRune('y'))
	require.NotNil(t, cmd)

	msg, ok := cmd().(shared.CopiedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Len(t, f.Clipboard.Copies, 1)

	var doc workflow.Document
	require.NoError(t, yaml.Unmarshal([]byte(f.Clipboard.Copies[0]), &doc))
	require.Equal(t, "Onboard a new hire", doc.Prompt)
	require.Len(t, doc.Steps, len(steps))
	require.Equal(t, steps[0].Title, doc.Steps[0].Title)
	require.Nil(t, doc.ApprovedAt)
}

func TestCopy_NoClipboard(t *testing.T) {
	f := modetest.New(t)
	f.Generate(t, "x")
	f.Services.Clipboard = nil
	m := New(f.Services).SetSize(80, 30)

	_, cmd := m.Update(keyRune('y'))

	msg, ok := cmd().(mode.StatusMsg)
	require.True(t, ok)
	require.True(t, msg.IsError)
}

func TestScroll_MovesViewport(t *testing.T) {
	f := modetest.New(t)
	f.Generate(t, "x")
	m := New(f.Services).SetSize(80, 12)
	require.Equal(t, 0, m.viewport.YOffset)

	m, _ = m.Update(keyRune('j'))

	require.Positive(t, m.viewport.YOffset)
}

func TestRefresh_ClearsApproving(t *testing.T) {
	m, _, _ := newModel(t)
	m.approving = true

	m = m.Refresh()

	require.False(t, m.approving)
}
