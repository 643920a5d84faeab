package store

import (
	"context"
	"errors"
	"strings"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// begin marks the store as loading and returns a cancellable context along
// with the epoch the operation belongs to.
func (s *Store) begin(ctx context.Context) (context.Context, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return nil, 0, workflow.ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.loading = true
	s.cancelFn = cancel
	return ctx, s.epoch, nil
}

// finishLocked clears the loading state of the operation started at epoch.
// It reports false when the operation was superseded by Reset or Cancel.
// Callers hold s.mu.
func (s *Store) finishLocked(epoch uint64) bool {
	if epoch != s.epoch {
		return false
	}
	if s.cancelFn != nil {
		s.cancelFn()
		s.cancelFn = nil
	}
	s.loading = false
	return true
}

// abort ends an operation that failed without writing anything.
func (s *Store) abort(epoch uint64, err error) error {
	s.mu.Lock()
	current := s.finishLocked(epoch)
	s.mu.Unlock()

	if !current || errors.Is(err, context.Canceled) {
		return workflow.ErrCanceled
	}
	s.emit(Event{Type: EventLoadingChanged})
	return err
}

// GenerateWorkflow drafts a new step list for prompt, replacing the current
// one, and moves to the editing screen. The wait happens without holding
// the lock; ErrBusy is returned when another call is already in flight.
func (s *Store) GenerateWorkflow(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return workflow.ErrEmptyPrompt
	}

	ctx, epoch, err := s.begin(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()
	s.emit(Event{Type: EventLoadingChanged})

	steps, err := s.ai.GenerateSteps(ctx, prompt)
	if err != nil {
		log.Debug(log.CatStore, "generation did not complete", "error", err)
		return s.abort(epoch, err)
	}

	s.mu.Lock()
	if !s.finishLocked(epoch) {
		s.mu.Unlock()
		log.Debug(log.CatStore, "dropping superseded generation result")
		s.emit(Event{Type: EventOperationSupersede})
		return workflow.ErrCanceled
	}
	s.saveToHistory()
	s.commit(workflow.CloneSteps(steps))
	s.screen = workflow.ScreenEditing
	n := len(s.steps)
	s.mu.Unlock()

	log.Info(log.CatStore, "workflow generated", "steps", n)
	s.emit(Event{Type: EventWorkflowGenerated, Screen: workflow.ScreenEditing})
	return nil
}

// ReviseStep asks the assistant to improve the step with id and applies the
// result as an ordinary, undoable update. The improvement is applied to the
// step as it stands after the wait, so edits made meanwhile are kept.
func (s *Store) ReviseStep(ctx context.Context, id string) (Revision, error) {
	step, ok := s.Step(id)
	if !ok {
		return Revision{}, &workflow.StepNotFoundError{ID: id}
	}

	ctx, epoch, err := s.begin(ctx)
	if err != nil {
		return Revision{}, err
	}
	s.emit(Event{Type: EventLoadingChanged})

	im, err := s.ai.Revise(ctx, step)
	if err != nil {
		log.Debug(log.CatStore, "revision did not complete", "id", id, "error", err)
		return Revision{}, s.abort(epoch, err)
	}

	s.mu.Lock()
	if !s.finishLocked(epoch) {
		s.mu.Unlock()
		log.Debug(log.CatStore, "dropping superseded revision result", "id", id)
		s.emit(Event{Type: EventOperationSupersede})
		return Revision{}, workflow.ErrCanceled
	}
	i := workflow.IndexOf(s.steps, id)
	if i < 0 {
		s.mu.Unlock()
		s.emit(Event{Type: EventLoadingChanged})
		return Revision{}, &workflow.StepNotFoundError{ID: id}
	}
	before := s.steps[i]
	s.saveToHistory()
	next := workflow.CloneSteps(s.steps)
	next[i] = im.PatchFor(before).Apply(before)
	s.commit(next)
	after := s.steps[i]
	s.mu.Unlock()

	log.Debug(log.CatStore, "step revised", "id", id, "confidence", after.Confidence)
	s.emit(Event{Type: EventStepRevised, StepID: id})
	return Revision{Before: before, After: after}, nil
}
