package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/workflow"
)

func testApproval() *archive.Approval {
	steps := []workflow.Step{
		{ID: "step-1", Title: "Analyze", Tool: "Salesforce", Agent: "DataAnalyzer", Confidence: 0.9, Order: 1},
		{ID: "step-2", Title: "Configure", Tool: "Zapier", Agent: "IntegrationBot", Confidence: 0.7, Order: 2},
	}
	summary := workflow.Summarize("Clean up my CRM", steps, workflow.DefaultThresholds(), 15)
	return archive.NewApproval(summary, steps, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestNewApprovalContext(t *testing.T) {
	a := testApproval()

	ctx := NewApprovalContext(a, "/tmp/x.yaml")

	require.Equal(t, a.ID, ctx.ID)
	require.Equal(t, "Clean up my CRM", ctx.Prompt)
	require.Equal(t, 2, ctx.StepCount)
	require.Equal(t, "/tmp/x.yaml", ctx.File)
}

func TestNewApprovalContext_Nil(t *testing.T) {
	ctx := NewApprovalContext(nil, "f")
	require.Equal(t, ApprovalContext{File: "f"}, ctx)
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		ctx      ApprovalContext
		expected string
		wantErr  bool
	}{
		{
			name:     "no template markers",
			tmpl:     "echo hello",
			expected: "echo hello",
		},
		{
			name:     "template with ID",
			tmpl:     "echo {{.ID}}",
			ctx:      ApprovalContext{ID: "abc"},
			expected: "echo abc",
		},
		{
			name:     "prompt is raw, user handles quoting",
			tmpl:     `notify-send "{{.Prompt}}" '{{.StepCount}} steps'`,
			ctx:      ApprovalContext{Prompt: "Sync 'leads'", StepCount: 4},
			expected: `notify-send "Sync 'leads'" '4 steps'`,
		},
		{
			name:     "shellquote escapes single quotes",
			tmpl:     `notify-send {{shellquote .Prompt}}`,
			ctx:      ApprovalContext{Prompt: "Sync 'leads'; rm -rf ~"},
			expected: `notify-send 'Sync '\''leads'\''; rm -rf ~'`,
		},
		{
			name:    "unknown field",
			tmpl:    "echo {{.Unknown}}",
			wantErr: true,
		},
		{
			name:    "unparseable",
			tmpl:    "echo {{.ID",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := renderCommand(tt.tmpl, tt.ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestExecuteHook_Success(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hook.out")
	hook := config.HookConfig{Description: "Record", Command: "echo {{.StepCount}} > " + out}

	msg := executeHook(hook, ApprovalContext{StepCount: 3})()

	result, ok := msg.(HookExecutedMsg)
	require.True(t, ok)
	require.Equal(t, "Record", result.Name)
	require.NoError(t, result.Err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "3\n"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestExecuteHook_ShellquotedPromptReachesCommandIntact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prompt.out")
	prompt := `Sync 'leads' && echo "$HOME"; touch pwned`
	hook := config.HookConfig{Command: "printf %s {{shellquote .Prompt}} > " + out}

	result := executeHook(hook, ApprovalContext{Prompt: prompt})().(HookExecutedMsg)
	require.NoError(t, result.Err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == prompt
	}, 2*time.Second, 10*time.Millisecond)
}

func TestExecuteHook_TemplateError(t *testing.T) {
	msg := executeHook(config.HookConfig{Command: "echo {{.Nope}}"}, ApprovalContext{})()

	result := msg.(HookExecutedMsg)
	require.Equal(t, "echo {{.Nope}}", result.Name, "command doubles as name when no description")
	require.ErrorContains(t, result.Err, "template rendering failed")
}

func TestRunApproveHooks_NoHooks(t *testing.T) {
	require.Nil(t, RunApproveHooks(nil, testApproval()))
	require.Nil(t, RunApproveHooks([]config.HookConfig{{Command: "true"}}, nil))
}

func TestRunApproveHooks_WritesDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "copy.yaml")
	hooks := []config.HookConfig{
		{Description: "copy", Command: "cp {{.File}} " + out},
		{Description: "noop", Command: "true"},
	}

	cmd := RunApproveHooks(hooks, testApproval())
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	for _, c := range batch {
		require.NoError(t, c().(HookExecutedMsg).Err)
	}

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && len(data) > 0
	}, 2*time.Second, 10*time.Millisecond)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "prompt: Clean up my CRM")
	require.Contains(t, string(data), "title: Analyze")
}
