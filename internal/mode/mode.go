// Package mode holds what the screen controllers share: the services they
// act on and the messages that cross screen boundaries.
package mode

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/mode/shared"
	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/ui/markdown"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// Services bundles the dependencies every screen controller receives.
type Services struct {
	Store     *store.Store
	Config    config.Config
	Clipboard shared.Clipboard
	// Archive is nil when the ledger is disabled.
	Archive  archive.Repository
	Markdown *markdown.Renderer
	// Examples are the sample prompts offered on the input screen.
	Examples []string
	// Tools and Agents are offered by the editing screen's pickers.
	Tools  []string
	Agents []string
	Now    func() time.Time
}

// Thresholds returns the configured confidence cut-offs.
func (s Services) Thresholds() workflow.Thresholds {
	if s.Config.UI.ReviewThreshold == 0 && s.Config.UI.CautionThreshold == 0 {
		return workflow.DefaultThresholds()
	}
	return workflow.Thresholds{Review: s.Config.UI.ReviewThreshold, Caution: s.Config.UI.CautionThreshold}
}

// MinutesPerStep returns the configured estimate per step.
func (s Services) MinutesPerStep() int {
	if s.Config.UI.MinutesPerStep <= 0 {
		return workflow.DefaultMinutesPerStep
	}
	return s.Config.UI.MinutesPerStep
}

func (s Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateRequestMsg asks the app to start generating a workflow.
type GenerateRequestMsg struct {
	Prompt string
}

// GenerateDoneMsg reports the end of a generation.
type GenerateDoneMsg struct {
	Err error
}

// ReviseDoneMsg reports the end of a step revision.
type ReviseDoneMsg struct {
	StepID   string
	Revision store.Revision
	Err      error
}

// ApprovedMsg reports an approval. Approval is set even when archiving failed.
type ApprovedMsg struct {
	Approval *archive.Approval
	Err      error
}

// StatusMsg shows a transient message in the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}

// Status returns a command emitting a StatusMsg.
func Status(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, IsError: isError} }
}

// ErrorText renders a store error for the status bar.
func ErrorText(err error) string {
	var nf *workflow.StepNotFoundError
	var oor *workflow.IndexOutOfRangeError
	switch {
	case errors.Is(err, workflow.ErrBusy):
		return "Still working on the previous request"
	case errors.Is(err, workflow.ErrCanceled):
		return "Canceled"
	case errors.Is(err, workflow.ErrNoSteps):
		return "Add at least one step before continuing"
	case errors.As(err, &nf):
		return "That step no longer exists"
	case errors.As(err, &oor):
		return "Can't move the step any further"
	default:
		return err.Error()
	}
}

// GenerateCmd runs a generation off the UI goroutine.
func GenerateCmd(ctx context.Context, st *store.Store, prompt string) tea.Cmd {
	return func() tea.Msg {
		return GenerateDoneMsg{Err: st.GenerateWorkflow(ctx, prompt)}
	}
}

// ReviseCmd runs a step revision off the UI goroutine.
func ReviseCmd(ctx context.Context, st *store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		rev, err := st.ReviseStep(ctx, id)
		return ReviseDoneMsg{StepID: id, Revision: rev, Err: err}
	}
}

// ApproveCmd records the current workflow in the archive, launches the
// on_approve hooks and resets the store for the next prompt.
func ApproveCmd(ctx context.Context, svc Services) tea.Cmd {
	state := svc.Store.State()
	if len(state.Steps) == 0 {
		return func() tea.Msg { return ApprovedMsg{Err: workflow.ErrNoSteps} }
	}
	summary := workflow.Summarize(state.CurrentPrompt, state.Steps, svc.Thresholds(), svc.MinutesPerStep())
	approval := archive.NewApproval(summary, state.Steps, svc.now())

	// The store is back on the input screen before the archive write starts.
	svc.Store.Reset()

	approve := func() tea.Msg {
		if svc.Archive == nil {
			return ApprovedMsg{Approval: approval}
		}
		if err := svc.Archive.Save(ctx, approval); err != nil {
			log.ErrorErr(log.CatDB, "Failed to archive approval", err, "id", approval.ID)
			return ApprovedMsg{Approval: approval, Err: err}
		}
		log.Info(log.CatDB, "Approval archived", "id", approval.ID, "steps", approval.StepCount())
		return ApprovedMsg{Approval: approval}
	}

	if hooks := shared.RunApproveHooks(svc.Config.Hooks.OnApprove, approval); hooks != nil {
		return tea.Batch(approve, hooks)
	}
	return approve
}
