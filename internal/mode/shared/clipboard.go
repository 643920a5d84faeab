package shared

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
)

// Clipboard copies text somewhere the user can paste it from.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard uses OSC 52 over SSH and in GNU screen, and the native
// tools (pbcopy, xclip) otherwise.
type SystemClipboard struct{}

type copyMethod int

const (
	methodNative copyMethod = iota
	methodOSC52
)

// Copy copies text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	if chooseMethod(os.Getenv) == methodOSC52 {
		return copyViaOSC52(text)
	}
	return copyViaNative(text)
}

// chooseMethod prefers native tools in a local tmux session, OSC 52 for
// remote sessions and GNU screen.
func chooseMethod(getenv func(string) string) copyMethod {
	remote := getenv("SSH_TTY") != "" || getenv("SSH_CLIENT") != "" || getenv("SSH_CONNECTION") != ""
	if getenv("TMUX") != "" && !remote {
		return methodNative
	}
	if remote || getenv("STY") != "" {
		return methodOSC52
	}
	return methodNative
}

// osc52Sequence builds the escape sequence, wrapped in a DCS passthrough
// when running inside tmux.
func osc52Sequence(text string, inTmux bool) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if inTmux {
		return fmt.Sprintf("\x1bPtmux;\x1b\x1b]52;c;%s\x07\x1b\\", encoded)
	}
	return fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
}

// copyViaOSC52 writes to /dev/tty so the sequence bypasses Bubble Tea's
// alt-screen output.
func copyViaOSC52(text string) (err error) {
	seq := osc52Sequence(text, os.Getenv("TMUX") != "")

	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open /dev/tty: %w", err)
	}
	defer func() {
		if closeErr := tty.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = tty.WriteString(seq)
	return err
}

// nativeCommand returns the clipboard tool for goos.
func nativeCommand(goos string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("pbcopy"), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return exec.Command("xclip", "-selection", "clipboard"), nil
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", goos)
	}
}

func copyViaNative(text string) error {
	cmd, err := nativeCommand(runtime.GOOS)
	if err != nil {
		return err
	}

	pipe, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := pipe.Write([]byte(text)); err != nil {
		return err
	}
	if err := pipe.Close(); err != nil {
		return err
	}
	return cmd.Wait()
}

// CopiedMsg reports the outcome of CopyCmd.
type CopiedMsg struct {
	What string
	Err  error
}

// CopyCmd copies text off the UI goroutine.
func CopyCmd(cb Clipboard, what, text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{What: what, Err: cb.Copy(text)}
	}
}
