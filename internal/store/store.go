// Package store owns the workflow review state: the prompt, the ordered
// step list, the loading flag, the active screen and a linear undo/redo
// history of step-list snapshots.
//
// All mutations go through a *Store. It is safe for concurrent use; the
// simulated AI calls release the lock while they wait.
package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// Assistant drafts and revises steps. *mockai.Generator implements it.
type Assistant interface {
	GenerateSteps(ctx context.Context, prompt string) ([]workflow.Step, error)
	Revise(ctx context.Context, step workflow.Step) (workflow.Improvement, error)
}

// State is a read-only copy of the store's fields.
type State struct {
	CurrentPrompt string
	Steps         []workflow.Step
	IsLoading     bool
	CurrentScreen workflow.Screen
	History       []workflow.Snapshot
	HistoryIndex  int
}

// CanUndo reports whether Undo would change anything.
func (s State) CanUndo() bool {
	return s.HistoryIndex > 0
}

// CanRedo reports whether Redo would change anything.
func (s State) CanRedo() bool {
	return s.HistoryIndex < len(s.History)-1
}

// Revision is the result of a successful ReviseStep.
type Revision struct {
	Before workflow.Step
	After  workflow.Step
}

// Store is the workflow state container.
type Store struct {
	ai       Assistant
	now      func() time.Time
	newID    func() string
	listener Listener

	mu       sync.Mutex
	prompt   string
	steps    []workflow.Step
	loading  bool
	screen   workflow.Screen
	history  []workflow.Snapshot
	index    int
	redoTip  []workflow.Step // live steps saved by the first undo from the newest entry
	epoch    uint64          // bumped by Reset and Cancel to drop late results
	cancelFn context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides the ID generator used by AddStep.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithListener registers a change listener.
func WithListener(l Listener) Option {
	return func(s *Store) { s.listener = l }
}

// New creates an empty store on the input screen.
func New(ai Assistant, opts ...Option) *Store {
	s := &Store{
		ai:     ai,
		now:    time.Now,
		newID:  func() string { return "step-" + uuid.NewString() },
		steps:  []workflow.Step{},
		screen: workflow.ScreenInput,
		index:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]workflow.Snapshot, len(s.history))
	for i, snap := range s.history {
		history[i] = snap.Clone()
	}
	return State{
		CurrentPrompt: s.prompt,
		Steps:         workflow.CloneSteps(s.steps),
		IsLoading:     s.loading,
		CurrentScreen: s.screen,
		History:       history,
		HistoryIndex:  s.index,
	}
}

// Steps returns a copy of the current step list.
func (s *Store) Steps() []workflow.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return workflow.CloneSteps(s.steps)
}

// Step returns the step with id.
func (s *Store) Step(id string) (workflow.Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := workflow.IndexOf(s.steps, id); i >= 0 {
		return s.steps[i], true
	}
	return workflow.Step{}, false
}

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index > 0
}

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index < len(s.history)-1
}

// IsLoading reports whether a simulated call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetCurrentPrompt records the prompt text.
func (s *Store) SetCurrentPrompt(prompt string) {
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()
	s.emit(Event{Type: EventPromptChanged})
}

// SetLoading sets the loading flag directly.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.emit(Event{Type: EventLoadingChanged})
}

// SetCurrentScreen switches the active screen. Unknown screens are ignored.
func (s *Store) SetCurrentScreen(screen workflow.Screen) {
	if !screen.Valid() {
		log.Warn(log.CatStore, "ignoring unknown screen", "screen", string(screen))
		return
	}
	s.mu.Lock()
	s.screen = screen
	s.mu.Unlock()
	s.emit(Event{Type: EventScreenChanged, Screen: screen})
}

// saveToHistory appends a copy of the current steps after discarding any
// entries past the cursor. Callers hold s.mu and call it before mutating.
func (s *Store) saveToHistory() {
	s.history = append(s.history[:s.index+1], workflow.Snapshot{
		Steps:     workflow.CloneSteps(s.steps),
		Timestamp: s.now(),
	})
	s.index = len(s.history) - 1
	s.redoTip = nil
}

// commit installs a new step list. Callers hold s.mu.
func (s *Store) commit(steps []workflow.Step) {
	workflow.Renumber(steps)
	s.steps = steps
}

// Undo restores the step list from before the most recent mutation. It is
// a no-op, returning false, when HistoryIndex <= 0.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if s.index <= 0 {
		s.mu.Unlock()
		return false
	}
	if s.index == len(s.history)-1 {
		s.redoTip = workflow.CloneSteps(s.steps)
	}
	s.steps = workflow.CloneSteps(s.history[s.index].Steps)
	s.index--
	idx := s.index
	s.mu.Unlock()

	log.Debug(log.CatStore, "undo", "historyIndex", idx)
	s.emit(Event{Type: EventUndo})
	return true
}

// Redo re-applies the most recently undone mutation. It is a no-op,
// returning false, when HistoryIndex >= len(History)-1.
func (s *Store) Redo() bool {
	s.mu.Lock()
	if s.index >= len(s.history)-1 {
		s.mu.Unlock()
		return false
	}
	s.index++
	if s.index == len(s.history)-1 {
		s.steps = workflow.CloneSteps(s.redoTip)
	} else {
		s.steps = workflow.CloneSteps(s.history[s.index+1].Steps)
	}
	idx := s.index
	s.mu.Unlock()

	log.Debug(log.CatStore, "redo", "historyIndex", idx)
	s.emit(Event{Type: EventRedo})
	return true
}

// UpdateStep applies patch to the step with id.
func (s *Store) UpdateStep(id string, patch workflow.StepPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	err := s.updateLocked(id, patch)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(Event{Type: EventStepUpdated, StepID: id})
	return nil
}

func (s *Store) updateLocked(id string, patch workflow.StepPatch) error {
	i := workflow.IndexOf(s.steps, id)
	if i < 0 {
		return &workflow.StepNotFoundError{ID: id}
	}
	s.saveToHistory()
	next := workflow.CloneSteps(s.steps)
	next[i] = patch.Apply(next[i])
	s.commit(next)
	return nil
}

// DeleteStep removes the step with id.
func (s *Store) DeleteStep(id string) error {
	s.mu.Lock()
	i := workflow.IndexOf(s.steps, id)
	if i < 0 {
		s.mu.Unlock()
		return &workflow.StepNotFoundError{ID: id}
	}
	s.saveToHistory()
	s.commit(slices.Delete(workflow.CloneSteps(s.steps), i, i+1))
	s.mu.Unlock()

	s.emit(Event{Type: EventStepDeleted, StepID: id})
	return nil
}

// ReorderSteps moves the step at from so that it ends up at to. Both must
// be valid positions in the current list.
func (s *Store) ReorderSteps(from, to int) error {
	s.mu.Lock()
	n := len(s.steps)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return &workflow.IndexOutOfRangeError{From: from, To: to, Length: n}
	}
	s.saveToHistory()
	next := workflow.CloneSteps(s.steps)
	moved := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, moved)
	s.commit(next)
	id := moved.ID
	s.mu.Unlock()

	s.emit(Event{Type: EventStepsReordered, StepID: id})
	return nil
}

// AddStep appends step. A non-empty step.ID is kept; otherwise a fresh one
// is assigned. The added step is returned.
func (s *Store) AddStep(step workflow.Step) (workflow.Step, error) {
	if !workflow.ValidConfidence(step.Confidence) {
		return workflow.Step{}, workflow.ErrInvalidConfidence
	}

	s.mu.Lock()
	if step.ID == "" {
		step.ID = s.newID()
	} else if workflow.IndexOf(s.steps, step.ID) >= 0 {
		s.mu.Unlock()
		return workflow.Step{}, &workflow.DuplicateStepError{ID: step.ID}
	}
	s.saveToHistory()
	step.Order = len(s.steps) + 1
	s.commit(append(workflow.CloneSteps(s.steps), step))
	s.mu.Unlock()

	s.emit(Event{Type: EventStepAdded, StepID: step.ID})
	return step, nil
}

// Reset returns the store to its initial state and cancels any in-flight
// simulated call.
func (s *Store) Reset() {
	s.mu.Lock()
	s.stopPendingLocked()
	s.prompt = ""
	s.steps = []workflow.Step{}
	s.loading = false
	s.screen = workflow.ScreenInput
	s.history = nil
	s.index = -1
	s.redoTip = nil
	s.mu.Unlock()

	log.Debug(log.CatStore, "store reset")
	s.emit(Event{Type: EventReset})
}

// Cancel aborts the in-flight simulated call, if any, leaving the steps
// untouched. It reports whether there was anything to cancel.
func (s *Store) Cancel() bool {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return false
	}
	s.stopPendingLocked()
	s.loading = false
	s.mu.Unlock()

	log.Debug(log.CatStore, "in-flight operation canceled")
	s.emit(Event{Type: EventOperationCanceled})
	return true
}

// stopPendingLocked cancels the in-flight call and invalidates its result.
func (s *Store) stopPendingLocked() {
	s.epoch++
	if s.cancelFn != nil {
		s.cancelFn()
		s.cancelFn = nil
	}
}

func (s *Store) emit(e Event) {
	if s.listener == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	s.listener(e)
}
