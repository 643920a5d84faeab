package store

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/zjrosen/stepflow/internal/workflow"
)

// seededStore builds a store whose first snapshot is an n-step list, so the
// baseline sits at index 0.
func seededStore(t *rapid.T, n int) *Store {
	s := New(nil, WithIDFunc(counterIDs("id")))
	steps := make([]workflow.Step, n)
	for i := range steps {
		steps[i] = workflow.Step{ID: fmt.Sprintf("seed-%d", i), Title: fmt.Sprintf("Step %d", i), Confidence: 0.8}
	}
	s.mu.Lock()
	s.saveToHistory()
	s.commit(steps)
	s.mu.Unlock()
	return s
}

// mutate applies one randomly chosen successful mutation and reports its name.
func mutate(t *rapid.T, s *Store, label string) string {
	steps := s.Steps()
	kinds := []string{"add"}
	if len(steps) > 0 {
		kinds = append(kinds, "update", "delete", "reorder")
	}
	kind := rapid.SampledFrom(kinds).Draw(t, label)

	var err error
	switch kind {
	case "add":
		_, err = s.AddStep(workflow.Step{Title: "added", Confidence: 1})
	case "update":
		i := rapid.IntRange(0, len(steps)-1).Draw(t, label+"-idx")
		title := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, label+"-title")
		err = s.UpdateStep(steps[i].ID, workflow.StepPatch{Title: &title})
	case "delete":
		i := rapid.IntRange(0, len(steps)-1).Draw(t, label+"-idx")
		err = s.DeleteStep(steps[i].ID)
	case "reorder":
		from := rapid.IntRange(0, len(steps)-1).Draw(t, label+"-from")
		to := rapid.IntRange(0, len(steps)-1).Draw(t, label+"-to")
		err = s.ReorderSteps(from, to)
	}
	if err != nil {
		t.Fatalf("%s failed: %v", kind, err)
	}
	return kind
}

func checkIndexBounds(t *rapid.T, s *Store) {
	st := s.State()
	if st.HistoryIndex < -1 || st.HistoryIndex > len(st.History)-1 {
		t.Fatalf("history index %d out of bounds for %d entries", st.HistoryIndex, len(st.History))
	}
	for i, step := range st.Steps {
		if step.Order != i+1 {
			t.Fatalf("step %s has order %d at position %d", step.ID, step.Order, i)
		}
	}
}

func equalSteps(a, b []workflow.Step) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestProperty_UndoRestoresPreMutation: after any successful mutation,
// Undo restores the exact previous step list.
func TestProperty_UndoRestoresPreMutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := seededStore(t, rapid.IntRange(0, 6).Draw(t, "seedSteps"))
		warmup := rapid.IntRange(0, 5).Draw(t, "warmup")
		for i := range warmup {
			mutate(t, s, fmt.Sprintf("warm-%d", i))
		}

		before := s.Steps()
		kind := mutate(t, s, "op")
		if !s.Undo() {
			t.Fatalf("undo after %s was a no-op", kind)
		}
		if !equalSteps(before, s.Steps()) {
			t.Fatalf("undo after %s did not restore the previous list", kind)
		}
		checkIndexBounds(t, s)
	})
}

// TestProperty_UndoRedoInverse: undoing k times then redoing k times
// returns to the same list.
func TestProperty_UndoRedoInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := seededStore(t, rapid.IntRange(1, 6).Draw(t, "seedSteps"))
		ops := rapid.IntRange(1, 8).Draw(t, "ops")
		for i := range ops {
			mutate(t, s, fmt.Sprintf("op-%d", i))
		}
		latest := s.Steps()

		k := rapid.IntRange(1, ops).Draw(t, "k")
		for range k {
			if !s.Undo() {
				t.Fatal("undo unexpectedly unavailable")
			}
			checkIndexBounds(t, s)
		}
		for range k {
			if !s.Redo() {
				t.Fatal("redo unexpectedly unavailable")
			}
			checkIndexBounds(t, s)
		}
		if !equalSteps(latest, s.Steps()) {
			t.Fatal("undo/redo round trip changed the list")
		}
		if s.CanRedo() {
			t.Fatal("redo available at the newest entry")
		}
	})
}

// TestProperty_MutationTruncatesRedo: any mutation after an undo makes the
// newest entry current and redo unavailable.
func TestProperty_MutationTruncatesRedo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := seededStore(t, rapid.IntRange(1, 6).Draw(t, "seedSteps"))
		ops := rapid.IntRange(1, 6).Draw(t, "ops")
		for i := range ops {
			mutate(t, s, fmt.Sprintf("op-%d", i))
		}
		undos := rapid.IntRange(1, ops).Draw(t, "undos")
		for range undos {
			s.Undo()
		}
		idx := s.State().HistoryIndex

		mutate(t, s, "branch")

		st := s.State()
		if len(st.History) != idx+2 {
			t.Fatalf("history has %d entries, want %d", len(st.History), idx+2)
		}
		if st.HistoryIndex != len(st.History)-1 {
			t.Fatalf("index %d is not the newest entry", st.HistoryIndex)
		}
		if s.Redo() {
			t.Fatal("redo survived a new mutation")
		}
	})
}

// TestProperty_ReorderIsPermutation: a reorder keeps the same multiset of
// ids, puts the moved step at the target index and leaves every other step
// in its relative order.
func TestProperty_ReorderIsPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		s := seededStore(t, n)
		from := rapid.IntRange(0, n-1).Draw(t, "from")
		to := rapid.IntRange(0, n-1).Draw(t, "to")
		before := s.Steps()

		if err := s.ReorderSteps(from, to); err != nil {
			t.Fatalf("reorder: %v", err)
		}
		after := s.Steps()

		if after[to].ID != before[from].ID {
			t.Fatalf("moved step %s landed at %s", before[from].ID, after[to].ID)
		}
		seen := make(map[string]int, n)
		for _, st := range before {
			seen[st.ID]++
		}
		for _, st := range after {
			seen[st.ID]--
		}
		for id, c := range seen {
			if c != 0 {
				t.Fatalf("id %s count changed by %d", id, -c)
			}
		}
		rest := func(steps []workflow.Step, skip int) []string {
			ids := make([]string, 0, len(steps)-1)
			for i, st := range steps {
				if i != skip {
					ids = append(ids, st.ID)
				}
			}
			return ids
		}
		if got, want := rest(after, to), rest(before, from); !slices.Equal(got, want) {
			t.Fatalf("others reordered: got %v, want %v", got, want)
		}
		checkIndexBounds(t, s)
	})
}

// TestProperty_AddThenDeleteRestoresList: deleting the step just added
// yields a list equal by content to the one before the add.
func TestProperty_AddThenDeleteRestoresList(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := seededStore(t, rapid.IntRange(0, 6).Draw(t, "seedSteps"))
		warmup := rapid.IntRange(0, 4).Draw(t, "warmup")
		for i := range warmup {
			mutate(t, s, fmt.Sprintf("warm-%d", i))
		}
		before := s.Steps()

		added, err := s.AddStep(workflow.Step{
			Title:      rapid.StringMatching(`[A-Za-z ]{1,12}`).Draw(t, "title"),
			Tool:       rapid.SampledFrom([]string{"Slack", "Gmail", "Zapier"}).Draw(t, "tool"),
			Confidence: rapid.Float64Range(0, 1).Draw(t, "confidence"),
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := s.DeleteStep(added.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}

		if !equalSteps(before, s.Steps()) {
			t.Fatalf("add then delete changed the list: got %v, want %v", s.Steps(), before)
		}
		checkIndexBounds(t, s)
	})
}

// TestProperty_FailedOperationsLeaveStateAlone checks that rejected calls
// never snapshot.
func TestProperty_FailedOperationsLeaveStateAlone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "n")
		s := seededStore(t, n)
		before := s.State()

		_ = s.UpdateStep("nope", workflow.StepPatch{Title: workflow.Ptr("x")})
		_ = s.DeleteStep("nope")
		bad := rapid.IntRange(n, n+5).Draw(t, "bad")
		_ = s.ReorderSteps(bad, 0)
		_ = s.ReorderSteps(0, -1-rapid.IntRange(0, 3).Draw(t, "neg"))

		after := s.State()
		if len(after.History) != len(before.History) || after.HistoryIndex != before.HistoryIndex {
			t.Fatal("a failed operation touched history")
		}
		if !equalSteps(before.Steps, after.Steps) {
			t.Fatal("a failed operation changed the steps")
		}
	})
}
