package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepNotFoundError_Error(t *testing.T) {
	err := &StepNotFoundError{ID: "step-42"}
	require.Equal(t, `step not found: id="step-42"`, err.Error())
}

func TestIndexOutOfRangeError_Error(t *testing.T) {
	err := &IndexOutOfRangeError{From: 5, To: 0, Length: 3}
	require.Equal(t, "reorder out of range: from=5 to=0 length=3", err.Error())
}

func TestDuplicateStepError_Error(t *testing.T) {
	err := &DuplicateStepError{ID: "x"}
	require.Equal(t, `step already exists: id="x"`, err.Error())
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct", &StepNotFoundError{ID: "a"}, true},
		{"wrapped", fmt.Errorf("revise: %w", &StepNotFoundError{ID: "a"}), true},
		{"other", ErrBusy, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
