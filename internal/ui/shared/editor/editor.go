// Package editor hands text to the user's $VISUAL/$EDITOR and reads it back.
package editor

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FinishedMsg is sent when the external editor closes. Tag echoes the tag
// passed to OpenCmd so the caller knows what was being edited.
type FinishedMsg struct {
	Tag     string
	Content string
	Err     error
}

// ExecMsg carries the prepared editor process. The parent handles it by
// returning msg.ExecCmd() from Update.
type ExecMsg struct {
	tag     string
	cmd     *exec.Cmd
	tmpPath string
}

// Tag returns the tag the edit was opened with.
func (msg ExecMsg) Tag() string {
	return msg.tag
}

// editorCommand resolves the editor: $VISUAL, then $EDITOR, then vi. The
// value may carry arguments ("code --wait").
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// OpenCmd writes content to a temp file named with pattern (for example
// "stepflow-step-*.yaml") and returns a command producing ExecMsg.
func OpenCmd(tag, pattern, content string) tea.Cmd {
	return func() tea.Msg {
		if pattern == "" {
			pattern = "stepflow-edit-*.txt"
		}
		tmpFile, err := os.CreateTemp("", pattern)
		if err != nil {
			return FinishedMsg{Tag: tag, Err: err}
		}
		tmpPath := tmpFile.Name()

		if _, err := tmpFile.WriteString(content); err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
			return FinishedMsg{Tag: tag, Err: err}
		}
		if err := tmpFile.Close(); err != nil {
			_ = os.Remove(tmpPath)
			return FinishedMsg{Tag: tag, Err: err}
		}

		argv := append(editorCommand(), tmpPath)
		// #nosec G204 -- editor comes from the user's own VISUAL/EDITOR
		cmd := exec.Command(argv[0], argv[1:]...)

		return ExecMsg{tag: tag, cmd: cmd, tmpPath: tmpPath}
	}
}

// ExecCmd suspends the program, runs the editor and reports FinishedMsg.
func (msg ExecMsg) ExecCmd() tea.Cmd {
	return tea.ExecProcess(msg.cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(msg.tmpPath) }()

		if err != nil {
			return FinishedMsg{Tag: msg.tag, Err: err}
		}
		content, readErr := os.ReadFile(msg.tmpPath)
		if readErr != nil {
			return FinishedMsg{Tag: msg.tag, Err: readErr}
		}
		// Editors append trailing newlines on save.
		return FinishedMsg{Tag: msg.tag, Content: strings.TrimRight(string(content), "\n")}
	})
}
