package workflow

import (
	"fmt"
	"strings"
)

// DefaultMinutesPerStep is the rough execution estimate per step.
const DefaultMinutesPerStep = 15

// Badge classifies a step's confidence for display.
type Badge int

const (
	// BadgeNone means the step is confident enough to need no badge.
	BadgeNone Badge = iota
	// BadgeCaution is the lesser badge shown below the caution threshold.
	BadgeCaution
	// BadgeReview flags the step for human review.
	BadgeReview
)

// String returns a short label for the badge.
func (b Badge) String() string {
	switch b {
	case BadgeCaution:
		return "caution"
	case BadgeReview:
		return "needs review"
	default:
		return ""
	}
}

// Thresholds holds the review and caution cut-offs.
type Thresholds struct {
	Review  float64
	Caution float64
}

// DefaultThresholds returns the standard 0.8 / 0.9 cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Review: ReviewThreshold, Caution: CautionThreshold}
}

// BadgeFor classifies a confidence value.
func (t Thresholds) BadgeFor(confidence float64) Badge {
	switch {
	case confidence < t.Review:
		return BadgeReview
	case confidence < t.Caution:
		return BadgeCaution
	default:
		return BadgeNone
	}
}

// FormatConfidence renders a confidence as a whole percentage.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%d%%", int(c*100+0.5))
}

// Summary is the confirmation-screen overview of a workflow.
type Summary struct {
	Prompt           string
	StepCount        int
	EstimatedMinutes int
	Tools            []string
	LowConfidence    []Step
	AvgConfidence    float64
}

// Summarize builds a Summary. Tools are listed in order of first use.
func Summarize(prompt string, steps []Step, t Thresholds, minutesPerStep int) Summary {
	if minutesPerStep <= 0 {
		minutesPerStep = DefaultMinutesPerStep
	}

	s := Summary{
		Prompt:           prompt,
		StepCount:        len(steps),
		EstimatedMinutes: len(steps) * minutesPerStep,
		Tools:            []string{},
		LowConfidence:    []Step{},
	}

	seen := make(map[string]bool)
	total := 0.0
	for _, step := range steps {
		if !seen[step.Tool] {
			seen[step.Tool] = true
			s.Tools = append(s.Tools, step.Tool)
		}
		if step.Confidence < t.Review {
			s.LowConfidence = append(s.LowConfidence, step)
		}
		total += step.Confidence
	}
	if len(steps) > 0 {
		s.AvgConfidence = total / float64(len(steps))
	}
	return s
}

// HasLowConfidence reports whether any step needs review.
func (s Summary) HasLowConfidence() bool {
	return len(s.LowConfidence) > 0
}

// FormatDuration renders minutes as "45 min" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Markdown renders the summary and steps as a markdown document.
func (s Summary) Markdown(steps []Step) string {
	var b strings.Builder

	b.WriteString("# Review workflow\n\n")
	if s.Prompt != "" {
		fmt.Fprintf(&b, "> %s\n\n", s.Prompt)
	}
	fmt.Fprintf(&b, "- **Steps:** %d\n", s.StepCount)
	fmt.Fprintf(&b, "- **Estimated time:** %s\n", FormatDuration(s.EstimatedMinutes))
	fmt.Fprintf(&b, "- **Tools:** %s\n", strings.Join(s.Tools, ", "))
	fmt.Fprintf(&b, "- **Average confidence:** %s\n\n", FormatConfidence(s.AvgConfidence))

	if s.HasLowConfidence() {
		b.WriteString("## Needs review\n\n")
		b.WriteString("These steps have confidence below the review threshold. You may want to revise them before approving.\n\n")
		for _, step := range s.LowConfidence {
			fmt.Fprintf(&b, "- **%s** (%s confidence)\n", step.Title, FormatConfidence(step.Confidence))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Steps\n\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. **%s** via *%s* (%s)  \n   %s\n", i+1, step.Title, step.Tool, step.Agent, step.Description)
	}
	return b.String()
}
