package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/lipgloss"
)

var testColorGreen = lipgloss.Color("#00FF00")

func requireLineWidths(t *testing.T, rendered string, width int) {
	t.Helper()
	for i, line := range strings.Split(rendered, "\n") {
		require.Equal(t, width, lipgloss.Width(line), "line %d: %q", i, line)
	}
}

func TestPanel_Basic(t *testing.T) {
	result := Panel{Title: "Steps", Width: 20, Height: 5}.Render("content")

	require.Contains(t, result, "╭")
	require.Contains(t, result, "╯")
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "Steps")
	require.Contains(t, lines[1], "content")
	requireLineWidths(t, result, 20)
}

func TestPanel_TitleAndStatus(t *testing.T) {
	result := Panel{Title: "Step 2", Status: "92%", Width: 30, Height: 4}.Render("x")
	top := strings.Split(result, "\n")[0]
	require.Contains(t, top, "Step 2")
	require.Contains(t, top, "92%")
	require.True(t, strings.HasSuffix(top, "─╮"))
	requireLineWidths(t, result, 30)
}

func TestPanel_StatusOnly(t *testing.T) {
	result := Panel{Status: "Right", Width: 20, Height: 3}.Render("")
	top := strings.Split(result, "\n")[0]
	require.Contains(t, top, "Right")
	requireLineWidths(t, result, 20)
}

func TestPanel_StatusDroppedWhenNarrow(t *testing.T) {
	result := Panel{Title: "A long title", Status: "status", Width: 16, Height: 3}.Render("")
	top := strings.Split(result, "\n")[0]
	require.NotContains(t, top, "status")
	require.Equal(t, 16, lipgloss.Width(top))
}

func TestPanel_LongTitleTruncated(t *testing.T) {
	result := Panel{Title: "This Is A Very Long Title That Should Be Truncated", Width: 20, Height: 3}.Render("")
	top := strings.Split(result, "\n")[0]
	require.Contains(t, top, "...")
	require.LessOrEqual(t, lipgloss.Width(top), 20)
}

func TestPanel_Footer(t *testing.T) {
	result := Panel{Title: "T", Footer: "tool: Slack", Width: 24, Height: 6}.Render("body")
	lines := strings.Split(result, "\n")

	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[3], "├"))
	require.True(t, strings.HasSuffix(lines[3], "┤"))
	require.Contains(t, lines[4], "tool: Slack")
	requireLineWidths(t, result, 24)
}

func TestPanel_ContentClipped(t *testing.T) {
	content := "Line 1\nLine 2\nLine 3\nLine 4"
	result := Panel{Width: 20, Height: 4}.Render(content)

	require.Contains(t, result, "Line 1")
	require.Contains(t, result, "Line 2")
	require.NotContains(t, result, "Line 3")
}

func TestPanel_WrapsLongContent(t *testing.T) {
	result := Panel{Width: 12, Height: 6}.Render("alpha beta gamma delta")
	requireLineWidths(t, result, 12)
	require.Contains(t, result, "gamma")
}

func TestPanel_MinimalWidth(t *testing.T) {
	result := Panel{Width: 3, Height: 3}.Render("")
	require.Contains(t, result, "╭")
	require.Contains(t, result, "╯")
}

func TestPanel_FocusKeepsShape(t *testing.T) {
	p := Panel{Title: "Title", Width: 20, Height: 5, TitleColor: testColorGreen}
	unfocused := p.Render("content")
	p.Focused = true
	focused := p.Render("content")
	require.Equal(t, len(strings.Split(unfocused, "\n")), len(strings.Split(focused, "\n")))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very short", "Hello", 3, "..."},
		{"minimal", "Hello", 1, "."},
		{"zero", "Hello", 0, ""},
		{"wide runes", "日本語テキスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.want, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}

func TestBuildTopBorder(t *testing.T) {
	borderStyle := lipgloss.NewStyle().Foreground(BorderDefaultColor)
	titleStyle := lipgloss.NewStyle().Foreground(testColorGreen)

	tests := []struct {
		name       string
		title      string
		innerWidth int
		wantTitle  bool
	}{
		{"normal", "Title", 20, true},
		{"empty title", "", 20, false},
		{"narrow", "Title", 3, false},
		{"just enough", "T", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildTopBorder(tt.title, tt.innerWidth, borderStyle, titleStyle)

			require.True(t, strings.HasPrefix(got, "╭"))
			require.True(t, strings.HasSuffix(got, "╮"))
			require.Equal(t, tt.innerWidth+2, lipgloss.Width(got))
			if tt.wantTitle {
				require.Contains(t, got, tt.title)
			}
		})
	}
}
