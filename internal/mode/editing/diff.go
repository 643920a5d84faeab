package editing

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/ui/styles"
	"github.com/zjrosen/stepflow/internal/workflow"
)

// renderDiff marks insertions and deletions between before and after at
// word granularity.
func renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(styles.DiffInsertStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(styles.DiffDeleteStyle.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// renderRevision describes what the last revision changed.
func renderRevision(rev store.Revision, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s → %s\n",
		styles.TitleStyle.Render(rev.After.Title),
		workflow.FormatConfidence(rev.Before.Confidence),
		styles.SuccessStyle.Render(workflow.FormatConfidence(rev.After.Confidence)))
	b.WriteString(wordwrap.String(renderDiff(rev.Before.Description, rev.After.Description), width))
	if rev.Before.Reasoning != rev.After.Reasoning {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render("why: "))
		b.WriteString(wordwrap.String(renderDiff(rev.Before.Reasoning, rev.After.Reasoning), width-5))
	}
	return b.String()
}
