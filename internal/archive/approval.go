// Package archive defines approved-workflow records and the repository
// that stores them. Records are write-once: the live store is never
// rebuilt from them.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/stepflow/internal/workflow"
)

// Approval is a workflow the user signed off on.
type Approval struct {
	ID               string
	Prompt           string
	Steps            []workflow.Step
	EstimatedMinutes int
	LowConfidence    int
	ApprovedAt       time.Time
}

// NewApproval snapshots steps into a new approval with a fresh id.
func NewApproval(summary workflow.Summary, steps []workflow.Step, approvedAt time.Time) *Approval {
	return &Approval{
		ID:               uuid.NewString(),
		Prompt:           summary.Prompt,
		Steps:            workflow.CloneSteps(steps),
		EstimatedMinutes: summary.EstimatedMinutes,
		LowConfidence:    len(summary.LowConfidence),
		ApprovedAt:       approvedAt.UTC().Truncate(time.Second),
	}
}

// StepCount returns the number of approved steps.
func (a *Approval) StepCount() int {
	return len(a.Steps)
}

// Document returns the approval in its export form.
func (a *Approval) Document() workflow.Document {
	at := a.ApprovedAt
	return workflow.Document{Prompt: a.Prompt, ApprovedAt: &at, Steps: workflow.CloneSteps(a.Steps)}
}

// ShortID returns the first eight characters of the id for display.
func (a *Approval) ShortID() string {
	if len(a.ID) <= 8 {
		return a.ID
	}
	return a.ID[:8]
}

// ListFilter narrows List results.
type ListFilter struct {
	// Limit caps the number of results; 0 means no limit.
	Limit int
	// Since excludes approvals before this instant when non-zero.
	Since time.Time
}

// Repository persists approvals.
type Repository interface {
	Save(ctx context.Context, a *Approval) error
	FindByID(ctx context.Context, id string) (*Approval, error)
	List(ctx context.Context, filter ListFilter) ([]*Approval, error)
}

// NotFoundError is returned when an approval id is unknown.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("approval not found: id=%q", e.ID)
}
