package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThresholds_BadgeFor(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name       string
		confidence float64
		want       Badge
	}{
		{"well below review", 0.7, BadgeReview},
		{"just below review", 0.799, BadgeReview},
		{"at review threshold", 0.8, BadgeCaution},
		{"just below caution", 0.899, BadgeCaution},
		{"at caution threshold", 0.9, BadgeNone},
		{"certain", 1.0, BadgeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, th.BadgeFor(tt.confidence))
		})
	}
}

func TestBadge_String(t *testing.T) {
	require.Equal(t, "", BadgeNone.String())
	require.Equal(t, "caution", BadgeCaution.String())
	require.Equal(t, "needs review", BadgeReview.String())
}

func TestFormatConfidence(t *testing.T) {
	require.Equal(t, "70%", FormatConfidence(0.7))
	require.Equal(t, "80%", FormatConfidence(0.7999999999999999))
	require.Equal(t, "100%", FormatConfidence(1))
	require.Equal(t, "0%", FormatConfidence(0))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0 min"},
		{45, "45 min"},
		{60, "1h"},
		{90, "1h 30m"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatDuration(tt.minutes))
	}
}

func TestSummarize(t *testing.T) {
	steps := []Step{
		{Title: "Export", Tool: "Salesforce", Confidence: 0.95},
		{Title: "Dedupe", Tool: "HubSpot", Confidence: 0.72},
		{Title: "Notify", Tool: "Salesforce", Confidence: 0.85},
	}

	s := Summarize("Clean up CRM", steps, DefaultThresholds(), 0)

	require.Equal(t, "Clean up CRM", s.Prompt)
	require.Equal(t, 3, s.StepCount)
	require.Equal(t, 45, s.EstimatedMinutes, "defaults to 15 minutes per step")
	require.Equal(t, []string{"Salesforce", "HubSpot"}, s.Tools)
	require.Len(t, s.LowConfidence, 1)
	require.Equal(t, "Dedupe", s.LowConfidence[0].Title)
	require.True(t, s.HasLowConfidence())
	require.InDelta(t, 0.84, s.AvgConfidence, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("", nil, DefaultThresholds(), 10)

	require.Zero(t, s.StepCount)
	require.Zero(t, s.EstimatedMinutes)
	require.Zero(t, s.AvgConfidence)
	require.Empty(t, s.Tools)
	require.False(t, s.HasLowConfidence())
}

func TestSummary_Markdown(t *testing.T) {
	steps := []Step{
		{Title: "Export", Description: "Extract records", Tool: "Salesforce", Agent: "Data Agent", Confidence: 0.95},
		{Title: "Dedupe", Description: "Find duplicates", Tool: "HubSpot", Agent: "Analytics Agent", Confidence: 0.72},
	}
	md := Summarize("Clean up CRM", steps, DefaultThresholds(), 15).Markdown(steps)

	require.Contains(t, md, "> Clean up CRM")
	require.Contains(t, md, "**Estimated time:** 30 min")
	require.Contains(t, md, "## Needs review")
	require.Contains(t, md, "**Dedupe** (72% confidence)")
	require.Contains(t, md, "1. **Export** via *Salesforce* (Data Agent)")
}

func TestSummary_Markdown_NoReviewSection(t *testing.T) {
	steps := []Step{{Title: "Export", Tool: "Slack", Confidence: 0.99}}
	md := Summarize("", steps, DefaultThresholds(), 15).Markdown(steps)

	require.NotContains(t, md, "Needs review")
	require.NotContains(t, md, "> ")
}
