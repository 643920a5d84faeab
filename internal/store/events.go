package store

import (
	"time"

	"github.com/zjrosen/stepflow/internal/workflow"
)

// EventType categorizes store changes.
type EventType string

const (
	EventPromptChanged      EventType = "prompt.changed"
	EventLoadingChanged     EventType = "loading.changed"
	EventScreenChanged      EventType = "screen.changed"
	EventWorkflowGenerated  EventType = "workflow.generated"
	EventStepAdded          EventType = "step.added"
	EventStepUpdated        EventType = "step.updated"
	EventStepDeleted        EventType = "step.deleted"
	EventStepsReordered     EventType = "steps.reordered"
	EventStepRevised        EventType = "step.revised"
	EventUndo               EventType = "history.undo"
	EventRedo               EventType = "history.redo"
	EventReset              EventType = "store.reset"
	EventOperationCanceled  EventType = "operation.canceled"
	EventOperationSupersede EventType = "operation.superseded"
)

// Event describes a single change to the store.
type Event struct {
	Type      EventType
	Timestamp time.Time
	// StepID is set for step-scoped events.
	StepID string
	// Screen is set for screen changes.
	Screen workflow.Screen
}

// Listener receives store events. It is called after the store lock is
// released, so it may read the store.
type Listener func(Event)
