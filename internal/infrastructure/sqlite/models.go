package sqlite

import (
	"time"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// ApprovalModel is a row of the approvals table. Times are Unix seconds.
type ApprovalModel struct {
	ID               string
	Prompt           string
	StepCount        int
	EstimatedMinutes int
	LowConfidence    int
	ApprovedAt       int64
}

// StepModel is a row of the approval_steps table.
type StepModel struct {
	ApprovalID  string
	Position    int
	StepID      string
	Title       string
	Description string
	Tool        string
	Agent       string
	Reasoning   string
	Confidence  float64
}

func toApprovalModel(a *archive.Approval) (ApprovalModel, []StepModel) {
	m := ApprovalModel{
		ID:               a.ID,
		Prompt:           a.Prompt,
		StepCount:        len(a.Steps),
		EstimatedMinutes: a.EstimatedMinutes,
		LowConfidence:    a.LowConfidence,
		ApprovedAt:       a.ApprovedAt.Unix(),
	}
	steps := make([]StepModel, len(a.Steps))
	for i, s := range a.Steps {
		steps[i] = StepModel{
			ApprovalID:  a.ID,
			Position:    i + 1,
			StepID:      s.ID,
			Title:       s.Title,
			Description: s.Description,
			Tool:        s.Tool,
			Agent:       s.Agent,
			Reasoning:   s.Reasoning,
			Confidence:  s.Confidence,
		}
	}
	return m, steps
}

func (m ApprovalModel) toDomain(steps []StepModel) *archive.Approval {
	a := &archive.Approval{
		ID:               m.ID,
		Prompt:           m.Prompt,
		EstimatedMinutes: m.EstimatedMinutes,
		LowConfidence:    m.LowConfidence,
		ApprovedAt:       time.Unix(m.ApprovedAt, 0).UTC(),
		Steps:            make([]workflow.Step, 0, len(steps)),
	}
	for _, s := range steps {
		a.Steps = append(a.Steps, workflow.Step{
			ID:          s.StepID,
			Title:       s.Title,
			Description: s.Description,
			Tool:        s.Tool,
			Agent:       s.Agent,
			Reasoning:   s.Reasoning,
			Confidence:  s.Confidence,
			Order:       s.Position,
		})
	}
	return a
}
