package styles

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stepflow/internal/workflow"
)

func TestFormatConfidence(t *testing.T) {
	th := workflow.DefaultThresholds()
	tests := []struct {
		name       string
		confidence float64
		expected   string
	}{
		{"confident", 0.95, "● 95%"},
		{"exactly caution threshold", 0.9, "● 90%"},
		{"caution", 0.85, "◐ 85%"},
		{"exactly review threshold", 0.8, "◐ 80%"},
		{"needs review", 0.72, "○ 72%"},
		{"full", 1, "● 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(FormatConfidence(tt.confidence, th))
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatReviewLabel(t *testing.T) {
	th := workflow.DefaultThresholds()
	require.Empty(t, FormatReviewLabel(0.95, th))
	require.Equal(t, "caution", ansi.Strip(FormatReviewLabel(0.85, th)))
	require.Equal(t, "needs review", ansi.Strip(FormatReviewLabel(0.5, th)))
}
