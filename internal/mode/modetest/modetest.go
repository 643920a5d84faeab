// Package modetest builds mode.Services for screen controller tests.
package modetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/mockai"
	"github.com/zjrosen/stepflow/internal/mode"
	"github.com/zjrosen/stepflow/internal/store"
	"github.com/zjrosen/stepflow/internal/ui/markdown"
	"github.com/zjrosen/stepflow/internal/workflow"
	"github.com/zjrosen/stepflow/internal/workflow/templates"
)

// Now is the fixed clock used by Services.
var Now = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// Clipboard records copies.
type Clipboard struct {
	mu     sync.Mutex
	Copies []string
	Err    error
}

// Copy implements shared.Clipboard.
func (c *Clipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Copies = append(c.Copies, text)
	return c.Err
}

// Archive is an in-memory archive.Repository.
type Archive struct {
	mu        sync.Mutex
	Approvals []*archive.Approval
	Err       error
}

// Save implements archive.Repository.
func (a *Archive) Save(_ context.Context, approval *archive.Approval) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Approvals = append(a.Approvals, approval)
	return nil
}

// FindByID implements archive.Repository.
func (a *Archive) FindByID(_ context.Context, id string) (*archive.Approval, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ap := range a.Approvals {
		if ap.ID == id {
			return ap, nil
		}
	}
	return nil, &archive.NotFoundError{ID: id}
}

// List implements archive.Repository.
func (a *Archive) List(_ context.Context, _ archive.ListFilter) ([]*archive.Approval, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*archive.Approval(nil), a.Approvals...), nil
}

// Fixture bundles Services with the fakes behind it.
type Fixture struct {
	Services  mode.Services
	Store     *store.Store
	Clipboard *Clipboard
	Archive   *Archive
}

// New returns services backed by an instant, seeded assistant.
func New(t *testing.T) *Fixture {
	t.Helper()

	var n int
	ids := func() string {
		n++
		return fmt.Sprintf("step-%d", n)
	}
	gen := mockai.New(mockai.WithSeed(1), mockai.WithSleeper(mockai.NoDelay), mockai.WithIDFunc(ids))
	st := store.New(gen, store.WithIDFunc(func() string { return "added-" + ids() }), store.WithClock(func() time.Time { return Now }))

	cfg := config.Defaults()
	pool := templates.Builtin()
	cb := &Clipboard{}
	ar := &Archive{}
	return &Fixture{
		Services: mode.Services{
			Store:     st,
			Config:    cfg,
			Clipboard: cb,
			Archive:   ar,
			Markdown:  markdown.New(markdown.StyleNoTTY),
			Examples:  pool.Examples,
			Tools:     pool.Tools,
			Agents:    pool.Agents,
			Now:       func() time.Time { return Now },
		},
		Store:     st,
		Clipboard: cb,
		Archive:   ar,
	}
}

// Generate drafts a workflow synchronously and fails the test on error.
func (f *Fixture) Generate(t *testing.T, prompt string) []workflow.Step {
	t.Helper()
	require.NoError(t, f.Store.GenerateWorkflow(context.Background(), prompt))
	return f.Store.Steps()
}
