package styles

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorToken names a themable color, e.g. "text.primary".
type ColorToken string

// Color tokens.
const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	TokenSelectionBackground ColorToken = "selection.background"
	TokenButtonBackground    ColorToken = "button.background"
	TokenButtonText          ColorToken = "button.text"

	TokenConfidenceHigh   ColorToken = "confidence.high"
	TokenConfidenceMedium ColorToken = "confidence.medium"
	TokenConfidenceLow    ColorToken = "confidence.low"

	TokenTool  ColorToken = "badge.tool"
	TokenAgent ColorToken = "badge.agent"

	TokenDiffInsert ColorToken = "diff.insert"
	TokenDiffDelete ColorToken = "diff.delete"
)

// AllTokens lists every valid token in display order.
var AllTokens = []ColorToken{
	TokenTextPrimary, TokenTextSecondary, TokenTextMuted,
	TokenStatusSuccess, TokenStatusWarning, TokenStatusError,
	TokenBorderDefault, TokenBorderFocus,
	TokenSelectionBackground, TokenButtonBackground, TokenButtonText,
	TokenConfidenceHigh, TokenConfidenceMedium, TokenConfidenceLow,
	TokenTool, TokenAgent,
	TokenDiffInsert, TokenDiffDelete,
}

// Theme colors. ApplyTheme replaces them; read them after it has run.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#B06000", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#C5221F", Dark: "#FF8787"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#8B7CF6"}

	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#E8E2FF", Dark: "#2D2A45"}
	ButtonBackgroundColor    = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#8B7CF6"}
	ButtonTextColor          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1A1A"}

	ConfidenceHighColor   = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#73F59F"}
	ConfidenceMediumColor = lipgloss.AdaptiveColor{Light: "#B06000", Dark: "#FECA57"}
	ConfidenceLowColor    = lipgloss.AdaptiveColor{Light: "#C5221F", Dark: "#FF8787"}

	ToolBadgeColor  = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#54A0FF"}
	AgentBadgeColor = lipgloss.AdaptiveColor{Light: "#6A1B9A", Dark: "#C792EA"}

	DiffInsertColor = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#73F59F"}
	DiffDeleteColor = lipgloss.AdaptiveColor{Light: "#C5221F", Dark: "#FF8787"}
)

// colorVars maps tokens to the variables ApplyTheme writes.
var colorVars = map[ColorToken]*lipgloss.AdaptiveColor{
	TokenTextPrimary:         &TextPrimaryColor,
	TokenTextSecondary:       &TextSecondaryColor,
	TokenTextMuted:           &TextMutedColor,
	TokenStatusSuccess:       &StatusSuccessColor,
	TokenStatusWarning:       &StatusWarningColor,
	TokenStatusError:         &StatusErrorColor,
	TokenBorderDefault:       &BorderDefaultColor,
	TokenBorderFocus:         &BorderFocusColor,
	TokenSelectionBackground: &SelectionBackgroundColor,
	TokenButtonBackground:    &ButtonBackgroundColor,
	TokenButtonText:          &ButtonTextColor,
	TokenConfidenceHigh:      &ConfidenceHighColor,
	TokenConfidenceMedium:    &ConfidenceMediumColor,
	TokenConfidenceLow:       &ConfidenceLowColor,
	TokenTool:                &ToolBadgeColor,
	TokenAgent:               &AgentBadgeColor,
	TokenDiffInsert:          &DiffInsertColor,
	TokenDiffDelete:          &DiffDeleteColor,
}

// defaultColors is captured before any theme is applied so the default
// preset can restore the adaptive pairs.
var defaultColors = snapshotColors()

func snapshotColors() map[ColorToken]lipgloss.AdaptiveColor {
	out := make(map[ColorToken]lipgloss.AdaptiveColor, len(colorVars))
	for token, v := range colorVars {
		out[token] = *v
	}
	return out
}

// ThemeConfig mirrors the theme section of the config file.
type ThemeConfig struct {
	Preset string
	Mode   string // "light", "dark" or "" for terminal detection
	Colors map[string]string
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func isValidToken(token ColorToken) bool {
	_, ok := colorVars[token]
	return ok
}

// ApplyTheme resets every color to the default preset, layers the named
// preset and the per-token overrides on top, and rebuilds derived styles.
// Nothing is changed when the config is invalid.
func ApplyTheme(cfg ThemeConfig) error {
	preset := DefaultPreset
	if cfg.Preset != "" && cfg.Preset != DefaultPreset.Name {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q (available: %v)", cfg.Preset, PresetNames())
		}
		preset = p
	}

	overrides := make(map[ColorToken]string, len(cfg.Colors))
	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token %q", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color %q for %s", value, key)
		}
		overrides[token] = value
	}

	for token, v := range colorVars {
		*v = defaultColors[token]
	}
	if preset.Name != DefaultPreset.Name {
		for token, hex := range preset.Colors {
			*colorVars[token] = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	} else {
		for token, hex := range preset.Colors {
			colorVars[token].Dark = hex
		}
	}
	for token, hex := range overrides {
		*colorVars[token] = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}

	switch cfg.Mode {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	rebuildStyles()
	return nil
}

// DetectBackground asks the terminal for its background color. Call it once
// at startup before the program takes over the terminal.
func DetectBackground() {
	lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
}

// PresetNames returns the sorted preset names.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
