// Package shared provides helpers used by more than one screen.
package shared

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/stepflow/internal/archive"
	"github.com/zjrosen/stepflow/internal/config"
	"github.com/zjrosen/stepflow/internal/log"
)

// ApprovalContext provides template variables for on_approve hooks.
// Fields are exported for text/template access.
type ApprovalContext struct {
	ID        string
	Prompt    string // raw; quote it with {{shellquote .Prompt}}
	StepCount int
	File      string // approved workflow written as YAML
}

// NewApprovalContext builds the context for an approval whose document was
// written to file.
func NewApprovalContext(a *archive.Approval, file string) ApprovalContext {
	if a == nil {
		return ApprovalContext{File: file}
	}
	return ApprovalContext{
		ID:        a.ID,
		Prompt:    a.Prompt,
		StepCount: a.StepCount(),
		File:      file,
	}
}

// shellQuote wraps s in single quotes for sh, escaping embedded quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var hookFuncs = template.FuncMap{
	"shellquote": shellQuote,
}

// renderCommand renders tmpl with ctx. Commands without "{{" are returned
// unparsed.
func renderCommand(tmpl string, ctx ApprovalContext) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Funcs(hookFuncs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// HookExecutedMsg is returned when an on_approve hook has been launched.
type HookExecutedMsg struct {
	Name string
	Err  error // nil on success, failure to render or start otherwise
}

// writeApprovalFile writes the approval document to a temp file for hooks.
func writeApprovalFile(a *archive.Approval) (string, error) {
	f, err := os.CreateTemp("", "stepflow-approved-*.yaml")
	if err != nil {
		return "", err
	}
	if err := a.Document().EncodeYAML(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// RunApproveHooks launches every hook fire-and-forget and returns one
// HookExecutedMsg per hook. The YAML file is left behind for the hooks to
// read.
func RunApproveHooks(hooks []config.HookConfig, approval *archive.Approval) tea.Cmd {
	if len(hooks) == 0 || approval == nil {
		return nil
	}

	file, err := writeApprovalFile(approval)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to write approval file for hooks", err)
		return func() tea.Msg {
			return HookExecutedMsg{Name: "on_approve", Err: fmt.Errorf("writing approval file: %w", err)}
		}
	}
	ctx := NewApprovalContext(approval, file)

	cmds := make([]tea.Cmd, 0, len(hooks))
	for _, hook := range hooks {
		cmds = append(cmds, executeHook(hook, ctx))
	}
	return tea.Batch(cmds...)
}

func executeHook(hook config.HookConfig, ctx ApprovalContext) tea.Cmd {
	return func() tea.Msg {
		name := hook.Description
		if name == "" {
			name = hook.Command
		}

		rendered, err := renderCommand(hook.Command, ctx)
		if err != nil {
			return HookExecutedMsg{Name: name, Err: fmt.Errorf("template rendering failed: %w", err)}
		}

		log.Debug(log.CatUI, "Executing approve hook (fire-and-forget)",
			"hook", name,
			"command", rendered)

		// #nosec G204 -- command is user-configured
		cmd := exec.Command("sh", "-c", rendered)
		if err := cmd.Start(); err != nil {
			return HookExecutedMsg{Name: name, Err: fmt.Errorf("failed to start command: %w", err)}
		}

		log.Debug(log.CatUI, "Approve hook launched", "hook", name, "pid", cmd.Process.Pid)
		go func() { _ = cmd.Wait() }()

		return HookExecutedMsg{Name: name}
	}
}
