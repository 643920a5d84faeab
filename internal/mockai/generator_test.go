package mockai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/stepflow/internal/workflow"
	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

// recordingSleeper captures requested delays without waiting.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	counter := 0
	base := []Option{
		WithSeed(42),
		WithSleeper(NoDelay),
		WithIDFunc(func() string {
			counter++
			return fmt.Sprintf("step-%d", counter)
		}),
	}
	return New(append(base, opts...)...)
}

func TestBuildSteps_ShapeAcrossSeeds(t *testing.T) {
	pool := templates.Builtin()
	counts := make(map[int]bool)

	for seed := uint64(0); seed < 200; seed++ {
		g := New(WithSeed(seed), WithSleeper(NoDelay))
		steps := g.BuildSteps()

		require.GreaterOrEqual(t, len(steps), 3)
		require.LessOrEqual(t, len(steps), 6)
		counts[len(steps)] = true

		for i, s := range steps {
			require.Equal(t, pool.Templates[i].Title, s.Title, "templates are taken in order")
			require.Equal(t, pool.Templates[i].Description, s.Description)
			require.Equal(t, pool.Templates[i].Reasoning, s.Reasoning)
			require.Contains(t, pool.Tools, s.Tool)
			require.Contains(t, pool.Agents, s.Agent)
			require.GreaterOrEqual(t, s.Confidence, 0.7)
			require.Less(t, s.Confidence, 1.0)
			require.Equal(t, i+1, s.Order)
			require.NotEmpty(t, s.ID)
		}
	}

	require.Len(t, counts, 4, "every length from 3 to 6 should occur across seeds")
}

func TestBuildSteps_SameSeedSameSteps(t *testing.T) {
	a := newTestGenerator(t).BuildSteps()
	b := newTestGenerator(t).BuildSteps()
	require.Equal(t, a, b)
}

func TestBuildSteps_UniqueDefaultIDs(t *testing.T) {
	g := New(WithSeed(7))
	seen := make(map[string]bool)
	for range 20 {
		for _, s := range g.BuildSteps() {
			require.False(t, seen[s.ID], "id %s reused", s.ID)
			seen[s.ID] = true
		}
	}
}

func TestGenerateSteps_PromptDoesNotAffectSelection(t *testing.T) {
	ctx := context.Background()
	a, err := newTestGenerator(t).GenerateSteps(ctx, "Clean up CRM")
	require.NoError(t, err)
	b, err := newTestGenerator(t).GenerateSteps(ctx, "Something entirely different")
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestGenerateSteps_DelayWithinRange(t *testing.T) {
	rec := &recordingSleeper{}
	g := newTestGenerator(t, WithSleeper(rec))

	for range 50 {
		_, err := g.GenerateSteps(context.Background(), "x")
		require.NoError(t, err)
	}

	require.Len(t, rec.delays, 50)
	for _, d := range rec.delays {
		require.GreaterOrEqual(t, d, 2000*time.Millisecond)
		require.Less(t, d, 3000*time.Millisecond)
	}
}

func TestGenerateSteps_FixedDelayWhenRangeCollapsed(t *testing.T) {
	rec := &recordingSleeper{}
	g := newTestGenerator(t, WithSleeper(rec), WithDelays(Delays{GenerateMin: time.Second, GenerateMax: time.Second}))

	_, err := g.GenerateSteps(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, []time.Duration{time.Second}, rec.delays)
}

func TestGenerateSteps_Canceled(t *testing.T) {
	g := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := g.GenerateSteps(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, steps)
}

func TestRevise_Improvement(t *testing.T) {
	g := newTestGenerator(t)
	step := workflow.Step{ID: "s1", Description: "Scan for duplicates", Reasoning: "Duplicates clutter", Confidence: 0.75}

	im, err := g.Revise(context.Background(), step)
	require.NoError(t, err)

	require.Contains(t, g.Pool().Improvements, im.Text)
	require.Equal(t, "This revision adds reliability and performance improvements.", im.Note)
	require.InDelta(t, 0.1, im.Boost, 1e-9)

	patch := im.PatchFor(step)
	require.InDelta(t, 0.85, *patch.Confidence, 1e-9)
	require.Equal(t, "Scan for duplicates "+im.Text, *patch.Description)
	require.Equal(t, "Duplicates clutter. This revision adds reliability and performance improvements.", *patch.Reasoning)
	require.Nil(t, patch.Title)
}

func TestRevise_ConfidenceCapped(t *testing.T) {
	g := newTestGenerator(t)

	patch := g.RevisionFor(workflow.Step{Confidence: 0.95})
	require.Equal(t, 1.0, *patch.Confidence)

	patch = g.RevisionFor(workflow.Step{Confidence: 1.0})
	require.Equal(t, 1.0, *patch.Confidence)
}

func TestRevise_UsesReviseDelay(t *testing.T) {
	rec := &recordingSleeper{}
	g := newTestGenerator(t, WithSleeper(rec))

	_, err := g.Revise(context.Background(), workflow.Step{Confidence: 0.8})
	require.NoError(t, err)
	require.Equal(t, []time.Duration{1500 * time.Millisecond}, rec.delays)
}

func TestTimerSleeper(t *testing.T) {
	s := TimerSleeper{}

	require.NoError(t, s.Sleep(context.Background(), time.Millisecond))
	require.NoError(t, s.Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Sleep(ctx, time.Hour)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestTracing_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	g := newTestGenerator(t, WithTracerProvider(tp))

	_, err := g.GenerateSteps(context.Background(), "Clean up CRM")
	require.NoError(t, err)
	_, err = g.Revise(context.Background(), workflow.Step{ID: "s1", Confidence: 0.7})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "mockai.generate", spans[0].Name())
	require.Equal(t, "mockai.revise", spans[1].Name())

	var sawCount bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "steps.count" {
			sawCount = true
			require.GreaterOrEqual(t, kv.Value.AsInt64(), int64(3))
		}
	}
	require.True(t, sawCount, "generate span should record steps.count")
}

func TestTracing_ErrorStatusOnCancel(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	g := newTestGenerator(t, WithTracerProvider(tp))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.GenerateSteps(ctx, "x")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "Error", spans[0].Status().Code.String())
}
