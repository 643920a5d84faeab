package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stepflow/internal/ui/styles"
)

func applyLoadedTheme(t *testing.T, content string) Config {
	t.Helper()
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NoError(t, styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)))
	return cfg
}

func TestTheme_PresetFromFile(t *testing.T) {
	cfg := applyLoadedTheme(t, "theme:\n  preset: catppuccin-mocha\n  mode: dark\n")

	assert.Equal(t, "catppuccin-mocha", cfg.Theme.Preset)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.Equal(t, "#CDD6F4", styles.TextPrimaryColor.Dark)
}

func TestTheme_DottedColorKeysSurviveDecoding(t *testing.T) {
	cfg := applyLoadedTheme(t, `
theme:
  preset: nord
  colors:
    confidence.low: "#ABCDEF"
    badge.tool: "#123456"
`)

	assert.Equal(t, map[string]string{
		"confidence.low": "#ABCDEF",
		"badge.tool":     "#123456",
	}, cfg.Theme.Colors)
	assert.Equal(t, "#ABCDEF", styles.ConfidenceLowColor.Light)
	assert.Equal(t, "#123456", styles.ToolBadgeColor.Dark)
	assert.Equal(t, styles.Presets["nord"].Colors[styles.TokenAgent], styles.AgentBadgeColor.Dark)
}

func TestTheme_NestedColorKeys(t *testing.T) {
	cfg := applyLoadedTheme(t, `
theme:
  colors:
    status:
      error: "#FF0000"
`)

	assert.Equal(t, "#FF0000", cfg.Theme.Colors["status.error"])
	assert.Equal(t, "#FF0000", styles.StatusErrorColor.Dark)
}

func TestTheme_EmptySectionIsDefault(t *testing.T) {
	cfg := applyLoadedTheme(t, "seed: 3\n")

	assert.Empty(t, cfg.Theme.Preset)
	assert.Empty(t, cfg.Theme.Colors)
	assert.Equal(t, styles.DefaultPreset.Colors[styles.TokenBorderFocus], styles.BorderFocusColor.Dark)
}

func TestTheme_BadValuesRejectedOnApply(t *testing.T) {
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown preset", "theme:\n  preset: solarized\n", "unknown theme preset"},
		{"unknown token", "theme:\n  colors:\n    step.card: \"#FFFFFF\"\n", "unknown color token"},
		{"bad hex", "theme:\n  colors:\n    confidence.low: red\n", "invalid hex color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.NoError(t, err)
			require.ErrorContains(t, styles.ApplyTheme(styles.ThemeConfig(cfg.Theme)), tt.wantErr)
		})
	}
}

func TestTheme_InvalidModeRejectedOnLoad(t *testing.T) {
	_, err := Load(writeConfig(t, "theme:\n  mode: sepia\n"))
	require.ErrorContains(t, err, "theme.mode")
}

func TestTheme_EveryPresetLoads(t *testing.T) {
	for _, name := range styles.PresetNames() {
		t.Run(name, func(t *testing.T) {
			applyLoadedTheme(t, "theme:\n  preset: "+name+"\n")
		})
	}
}
