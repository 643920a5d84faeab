// Package workflow defines the step and screen types shared by the store,
// the mock AI and the UI.
package workflow

import (
	"fmt"
	"math"
	"time"
)

// Confidence thresholds used when no UI override is configured.
const (
	// ReviewThreshold marks steps that need a human look before approval.
	ReviewThreshold = 0.8
	// CautionThreshold marks steps shown with a lesser badge.
	CautionThreshold = 0.9
)

// Step is one unit of work in a generated workflow.
type Step struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Tool        string  `json:"tool" yaml:"tool"`
	Agent       string  `json:"agent" yaml:"agent"`
	Reasoning   string  `json:"reasoning" yaml:"reasoning"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	// Order is the 1-based position. The slice order is authoritative and
	// Order is re-stamped after every mutation.
	Order int `json:"order" yaml:"order"`
}

// NeedsReview reports whether the step falls below the review threshold.
func (s Step) NeedsReview() bool {
	return s.Confidence < ReviewThreshold
}

// StepPatch is a partial update. Nil fields are left untouched.
type StepPatch struct {
	Title       *string
	Description *string
	Tool        *string
	Agent       *string
	Reasoning   *string
	Confidence  *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p StepPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Tool == nil &&
		p.Agent == nil && p.Reasoning == nil && p.Confidence == nil
}

// Apply returns a copy of s with the patch applied.
func (p StepPatch) Apply(s Step) Step {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Tool != nil {
		s.Tool = *p.Tool
	}
	if p.Agent != nil {
		s.Agent = *p.Agent
	}
	if p.Reasoning != nil {
		s.Reasoning = *p.Reasoning
	}
	if p.Confidence != nil {
		s.Confidence = *p.Confidence
	}
	return s
}

// Validate checks field ranges.
func (p StepPatch) Validate() error {
	if p.Confidence != nil && !ValidConfidence(*p.Confidence) {
		return ErrInvalidConfidence
	}
	return nil
}

// Improvement is what a revision adds to a step. It is chosen up front and
// applied to the step as it stands when the revision lands.
type Improvement struct {
	Text  string
	Note  string
	Boost float64
}

// PatchFor appends the improvement to s's description and the note to its
// reasoning, and raises confidence by Boost capped at 1.
func (im Improvement) PatchFor(s Step) StepPatch {
	return StepPatch{
		Description: Ptr(fmt.Sprintf("%s %s", s.Description, im.Text)),
		Reasoning:   Ptr(fmt.Sprintf("%s. %s", s.Reasoning, im.Note)),
		Confidence:  Ptr(math.Min(1, s.Confidence+im.Boost)),
	}
}

// ValidConfidence reports whether c lies in [0, 1].
func ValidConfidence(c float64) bool {
	return c >= 0 && c <= 1
}

// CloneSteps returns an independent copy of steps. Step holds only value
// fields so a slice copy is a deep copy.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return []Step{}
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Renumber stamps Order with each step's 1-based position.
func Renumber(steps []Step) {
	for i := range steps {
		steps[i].Order = i + 1
	}
}

// IndexOf returns the position of the step with id, or -1.
func IndexOf(steps []Step, id string) int {
	for i := range steps {
		if steps[i].ID == id {
			return i
		}
	}
	return -1
}

// Screen identifies the active screen.
type Screen string

const (
	ScreenInput        Screen = "input"
	ScreenEditing      Screen = "editing"
	ScreenConfirmation Screen = "confirmation"
)

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenInput, ScreenEditing, ScreenConfirmation:
		return true
	}
	return false
}

// Snapshot is an immutable copy of the step list captured for undo/redo.
type Snapshot struct {
	Steps     []Step
	Timestamp time.Time
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{Steps: CloneSteps(s.Steps), Timestamp: s.Timestamp}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
