package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stepflow/internal/mode/modetest"
	"github.com/zjrosen/stepflow/internal/workflow"
)

func waitForText(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(text))
	}, teatest.WithDuration(5*time.Second), teatest.WithCheckInterval(20*time.Millisecond))
}

func TestProgram_GenerateReviewApprove(t *testing.T) {
	f := modetest.New(t)
	tm := teatest.NewTestModel(t, New(f.Services), teatest.WithInitialTermSize(100, 40))

	tm.Type("Sync my contacts")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Review your workflow")

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Ready to approve?")

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Workflow approved")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second)).(Model)

	require.Equal(t, workflow.ScreenInput, final.Screen())
	require.Len(t, f.Archive.Approvals, 1)
	require.Equal(t, "Sync my contacts", f.Archive.Approvals[0].Prompt)
	require.Empty(t, f.Store.Steps())
}

func TestProgram_EditThenUndo(t *testing.T) {
	f := modetest.New(t)
	tm := teatest.NewTestModel(t, New(f.Services), teatest.WithInitialTermSize(100, 40))

	tm.Type("Triage tickets")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Review your workflow")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	waitForText(t, tm, "Added a new step")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	waitForText(t, tm, "Undid last change")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

	for _, s := range f.Store.Steps() {
		require.NotEqual(t, "New Step", s.Title)
	}
}
