package styles

import (
	"github.com/zjrosen/stepflow/internal/workflow"
)

// Badge glyphs.
const (
	glyphConfident = "●"
	glyphCaution   = "◐"
	glyphReview    = "○"
)

// ConfidenceGlyph returns the plain glyph for a badge level.
func ConfidenceGlyph(b workflow.Badge) string {
	switch b {
	case workflow.BadgeReview:
		return glyphReview
	case workflow.BadgeCaution:
		return glyphCaution
	default:
		return glyphConfident
	}
}

// FormatConfidence renders "● 92%" colored by badge level.
func FormatConfidence(confidence float64, t workflow.Thresholds) string {
	b := t.BadgeFor(confidence)
	return ConfidenceStyle(b).Render(ConfidenceGlyph(b) + " " + workflow.FormatConfidence(confidence))
}

// FormatReviewLabel returns the styled badge label, or "" when the step
// needs no badge.
func FormatReviewLabel(confidence float64, t workflow.Thresholds) string {
	b := t.BadgeFor(confidence)
	if b == workflow.BadgeNone {
		return ""
	}
	return ConfidenceStyle(b).Render(b.String())
}
