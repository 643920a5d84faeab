package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a simulated AI call is already in flight.
	ErrBusy = errors.New("a generation or revision is already in progress")

	// ErrCanceled is returned when an in-flight call was canceled or
	// superseded by a reset before it could apply its result.
	ErrCanceled = errors.New("operation canceled")

	// ErrInvalidConfidence indicates a confidence outside [0, 1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// ErrEmptyPrompt indicates a blank generation prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrNoSteps indicates an attempt to confirm a workflow without steps.
	ErrNoSteps = errors.New("workflow has no steps")
)

// StepNotFoundError indicates no step with the given ID exists.
type StepNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step not found: id=%q", e.ID)
}

// IndexOutOfRangeError indicates a reorder with an invalid position.
type IndexOutOfRangeError struct {
	From   int
	To     int
	Length int
}

// Error implements the error interface.
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("reorder out of range: from=%d to=%d length=%d", e.From, e.To, e.Length)
}

// DuplicateStepError indicates an add with an ID that is already in use.
type DuplicateStepError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step already exists: id=%q", e.ID)
}

// IsNotFound reports whether err is a StepNotFoundError.
func IsNotFound(err error) bool {
	var nf *StepNotFoundError
	return errors.As(err, &nf)
}
