// Package mockai simulates the AI service that drafts and revises workflow
// steps. No model is called: steps come from a fixed template pool, and
// latency is a wait on an injectable Sleeper.
package mockai

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/workflow"
	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

// InstrumentationName is the tracer scope for simulated AI calls.
const InstrumentationName = "github.com/zjrosen/stepflow/internal/mockai"

// Confidence bounds for generated steps, [min, max).
const (
	minConfidence   = 0.7
	confidenceRange = 0.3
	reviseBoost     = 0.1
)

// Generator drafts and revises steps. It is safe for concurrent use.
type Generator struct {
	pool    templates.Pool
	sleeper Sleeper
	delays  Delays
	newID   func() string
	tracer  trace.Tracer

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithPool replaces the built-in template pool.
func WithPool(p templates.Pool) Option {
	return func(g *Generator) { g.pool = p }
}

// WithSeed makes all random choices reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRand uses r for all random choices.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithSleeper replaces the real timer.
func WithSleeper(s Sleeper) Option {
	return func(g *Generator) { g.sleeper = s }
}

// WithDelays overrides the simulated latency.
func WithDelays(d Delays) Option {
	return func(g *Generator) { g.delays = d }
}

// WithIDFunc overrides step ID generation.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// WithTracerProvider sets the provider spans are recorded on.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Generator) { g.tracer = tp.Tracer(InstrumentationName) }
}

// NewStepID returns a fresh, unique step identifier.
func NewStepID() string {
	return "step-" + uuid.NewString()
}

// New creates a Generator using the built-in pool, a time-seeded random
// source, real delays and the global tracer provider.
func New(opts ...Option) *Generator {
	g := &Generator{
		pool:    templates.Builtin(),
		sleeper: TimerSleeper{},
		delays:  DefaultDelays(),
		newID:   NewStepID,
		tracer:  otel.Tracer(InstrumentationName),
	}
	seed := uint64(time.Now().UnixNano()) //nolint:gosec // G115: any bits will do for a mock seed
	g.rng = rand.New(rand.NewPCG(seed, seed>>1))
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Pool returns the template pool in use.
func (g *Generator) Pool() templates.Pool {
	return g.pool
}

// GenerateSteps waits the simulated generation latency and then drafts a
// workflow. The prompt is recorded on the trace but never influences which
// templates are chosen.
func (g *Generator) GenerateSteps(ctx context.Context, prompt string) ([]workflow.Step, error) {
	ctx, span := g.tracer.Start(ctx, "mockai.generate", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	delay := g.generateDelay()
	log.Debug(log.CatAI, "simulating workflow generation", "delay", delay)

	if err := g.sleeper.Sleep(ctx, delay); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation interrupted")
		return nil, err
	}

	steps := g.BuildSteps()
	span.SetAttributes(attribute.Int("steps.count", len(steps)))
	log.Debug(log.CatAI, "generated workflow", "steps", len(steps))
	return steps, nil
}

// BuildSteps drafts a workflow without any delay: the first N templates,
// N in [3, 6], each with a random tool, agent and confidence.
func (g *Generator) BuildSteps() []workflow.Step {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := min(len(g.pool.Templates), templates.MinSteps+g.rng.IntN(templates.MaxSteps-templates.MinSteps+1))
	steps := make([]workflow.Step, 0, n)
	for i, tmpl := range g.pool.Templates[:n] {
		steps = append(steps, workflow.Step{
			ID:          g.newID(),
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Reasoning:   tmpl.Reasoning,
			Tool:        g.pool.Tools[g.rng.IntN(len(g.pool.Tools))],
			Agent:       g.pool.Agents[g.rng.IntN(len(g.pool.Agents))],
			Confidence:  g.confidence(),
			Order:       i + 1,
		})
	}
	return steps
}

// Revise waits the simulated revision latency and returns the improvement
// chosen for step. The caller applies it to the step's current fields.
func (g *Generator) Revise(ctx context.Context, step workflow.Step) (workflow.Improvement, error) {
	ctx, span := g.tracer.Start(ctx, "mockai.revise", trace.WithAttributes(
		attribute.String("step.id", step.ID),
	))
	defer span.End()

	if err := g.sleeper.Sleep(ctx, g.delays.Revise); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "revision interrupted")
		return workflow.Improvement{}, err
	}

	im := g.ChooseImprovement()
	span.SetAttributes(attribute.String("revision.improvement", im.Text))
	return im, nil
}

// ChooseImprovement picks a random improvement from the pool, paired with
// the fixed reasoning note and the 0.1 confidence boost.
func (g *Generator) ChooseImprovement() workflow.Improvement {
	g.mu.Lock()
	text := g.pool.Improvements[g.rng.IntN(len(g.pool.Improvements))]
	g.mu.Unlock()

	note := g.pool.RevisionNote
	if note == "" {
		note = "This revision adds reliability and performance improvements."
	}
	return workflow.Improvement{Text: text, Note: note, Boost: reviseBoost}
}

// RevisionFor is ChooseImprovement applied to step without any delay.
func (g *Generator) RevisionFor(step workflow.Step) workflow.StepPatch {
	return g.ChooseImprovement().PatchFor(step)
}

func (g *Generator) generateDelay() time.Duration {
	lo, hi := g.delays.GenerateMin, g.delays.GenerateMax
	if hi <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + time.Duration(g.rng.Int64N(int64(hi-lo)))
}

// confidence draws from [0.7, 1.0). Callers hold g.mu.
func (g *Generator) confidence() float64 {
	c := minConfidence + g.rng.Float64()*confidenceRange
	if c >= 1 {
		c = math.Nextafter(1, 0)
	}
	return c
}
