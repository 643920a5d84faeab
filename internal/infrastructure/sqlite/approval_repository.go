package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/stepflow/internal/archive"
)

// approvalRepository implements archive.Repository using SQLite.
type approvalRepository struct {
	db *sql.DB
}

func newApprovalRepository(db *sql.DB) *approvalRepository {
	return &approvalRepository{db: db}
}

var _ archive.Repository = (*approvalRepository)(nil)

// Save inserts an approval and its steps in one transaction.
func (r *approvalRepository) Save(ctx context.Context, a *archive.Approval) (err error) {
	model, steps := toApprovalModel(a)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO approvals (id, prompt, step_count, estimated_minutes, low_confidence, approved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		model.ID, model.Prompt, model.StepCount, model.EstimatedMinutes, model.LowConfidence, model.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO approval_steps (approval_id, position, step_id, title, description, tool, agent, reasoning, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare step insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range steps {
		if _, err = stmt.ExecContext(ctx, s.ApprovalID, s.Position, s.StepID, s.Title, s.Description, s.Tool, s.Agent, s.Reasoning, s.Confidence); err != nil {
			return fmt.Errorf("failed to insert step %d: %w", s.Position, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit approval: %w", err)
	}
	return nil
}

// FindByID loads one approval with its steps.
// Returns archive.NotFoundError if the id is unknown.
func (r *approvalRepository) FindByID(ctx context.Context, id string) (*archive.Approval, error) {
	var m ApprovalModel
	err := r.db.QueryRowContext(ctx,
		`SELECT id, prompt, step_count, estimated_minutes, low_confidence, approved_at
		 FROM approvals WHERE id = ?`, id,
	).Scan(&m.ID, &m.Prompt, &m.StepCount, &m.EstimatedMinutes, &m.LowConfidence, &m.ApprovedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &archive.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find approval: %w", err)
	}

	steps, err := r.stepsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.toDomain(steps), nil
}

// List returns approvals newest first. Steps are loaded for each result.
func (r *approvalRepository) List(ctx context.Context, filter archive.ListFilter) ([]*archive.Approval, error) {
	query := `SELECT id, prompt, step_count, estimated_minutes, low_confidence, approved_at FROM approvals`
	var args []any
	if !filter.Since.IsZero() {
		query += ` WHERE approved_at >= ?`
		args = append(args, filter.Since.Unix())
	}
	query += ` ORDER BY approved_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	var models []ApprovalModel
	for rows.Next() {
		var m ApprovalModel
		if err := rows.Scan(&m.ID, &m.Prompt, &m.StepCount, &m.EstimatedMinutes, &m.LowConfidence, &m.ApprovedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan approval row: %w", err)
		}
		models = append(models, m)
	}
	// Close before loading steps: an in-memory database has one connection.
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return nil, fmt.Errorf("error iterating approval rows: %w", err)
	}

	approvals := make([]*archive.Approval, 0, len(models))
	for _, m := range models {
		steps, err := r.stepsFor(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, m.toDomain(steps))
	}
	return approvals, nil
}

func (r *approvalRepository) stepsFor(ctx context.Context, approvalID string) ([]StepModel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT approval_id, position, step_id, title, description, tool, agent, reasoning, confidence
		 FROM approval_steps WHERE approval_id = ? ORDER BY position`, approvalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []StepModel
	for rows.Next() {
		var s StepModel
		if err := rows.Scan(&s.ApprovalID, &s.Position, &s.StepID, &s.Title, &s.Description, &s.Tool, &s.Agent, &s.Reasoning, &s.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan step row: %w", err)
		}
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating step rows: %w", err)
	}
	return steps, nil
}
