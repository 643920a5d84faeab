package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTheme(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { _ = ApplyTheme(ThemeConfig{}) })
}

func TestApplyTheme_DefaultRestoresAdaptivePairs(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "dracula"}))

	require.NoError(t, ApplyTheme(ThemeConfig{}))

	assert.Equal(t, defaultColors[TokenConfidenceLow], ConfidenceLowColor)
	assert.Equal(t, DefaultPreset.Colors[TokenTextPrimary], TextPrimaryColor.Dark)
	assert.NotEqual(t, ConfidenceLowColor.Light, ConfidenceLowColor.Dark)
}

func TestApplyTheme_PresetUsesOneColorForBothBackgrounds(t *testing.T) {
	resetTheme(t)

	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "nord"}))

	want := Presets["nord"].Colors[TokenConfidenceLow]
	assert.Equal(t, lipgloss.AdaptiveColor{Light: want, Dark: want}, ConfidenceLowColor)
	assert.Equal(t, Presets["nord"].Colors[TokenTool], ToolBadgeColor.Dark)
}

func TestApplyTheme_OverrideBeatsPreset(t *testing.T) {
	resetTheme(t)

	require.NoError(t, ApplyTheme(ThemeConfig{
		Preset: "dracula",
		Colors: map[string]string{"confidence.low": "#00FF00", "badge.agent": "#abc"},
	}))

	assert.Equal(t, "#00FF00", ConfidenceLowColor.Dark)
	assert.Equal(t, "#00FF00", ConfidenceLowColor.Light)
	assert.Equal(t, "#abc", AgentBadgeColor.Dark)
	assert.Equal(t, Presets["dracula"].Colors[TokenConfidenceHigh], ConfidenceHighColor.Dark)
}

func TestApplyTheme_RebuildsStyles(t *testing.T) {
	resetTheme(t)

	require.NoError(t, ApplyTheme(ThemeConfig{Colors: map[string]string{"diff.insert": "#123456"}}))

	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#123456", Dark: "#123456"}, DiffInsertStyle.GetForeground())
}

func TestApplyTheme_Mode(t *testing.T) {
	resetTheme(t)
	was := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(was) })

	require.NoError(t, ApplyTheme(ThemeConfig{Mode: "light"}))
	assert.False(t, lipgloss.HasDarkBackground())

	require.NoError(t, ApplyTheme(ThemeConfig{Mode: "dark"}))
	assert.True(t, lipgloss.HasDarkBackground())
}

func TestApplyTheme_InvalidLeavesColorsAlone(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "dracula"}))
	before := snapshotColors()

	tests := []struct {
		name    string
		cfg     ThemeConfig
		wantErr string
	}{
		{"unknown preset", ThemeConfig{Preset: "solarized"}, "unknown theme preset"},
		{"unknown token", ThemeConfig{Colors: map[string]string{"step.card": "#FFFFFF"}}, "unknown color token"},
		{"bad hex", ThemeConfig{Colors: map[string]string{"confidence.low": "red"}}, "invalid hex color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyTheme(tt.cfg)
			require.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, before, snapshotColors())
		})
	}
}

func TestIsValidHexColor(t *testing.T) {
	for _, ok := range []string{"#FFF", "#abc", "#8B7CF6", "#AbCdEf"} {
		assert.True(t, isValidHexColor(ok), ok)
	}
	for _, bad := range []string{"", "FFFFFF", "#FF", "#FFFFFFF", "#GGGGGG", "red"} {
		assert.False(t, isValidHexColor(bad), bad)
	}
}

func TestIsValidToken(t *testing.T) {
	for _, token := range AllTokens {
		assert.True(t, isValidToken(token), token)
	}
	assert.False(t, isValidToken("step.card"))
	assert.False(t, isValidToken(""))
	assert.Len(t, colorVars, len(AllTokens))
}
