package styles

// Preset is a named set of token colors.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// DefaultPreset provides the dark-background values of the built-in palette.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default stepflow theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CCCCCC",
		TokenTextSecondary: "#999999",
		TokenTextMuted:     "#696969",
		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",
		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#8B7CF6",
	},
}

// Presets holds every built-in theme by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,
	"catppuccin-mocha": {
		Name:        "catppuccin-mocha",
		Description: "Warm, cozy dark theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:         "#CDD6F4",
			TokenTextSecondary:       "#BAC2DE",
			TokenTextMuted:           "#6C7086",
			TokenStatusSuccess:       "#A6E3A1",
			TokenStatusWarning:       "#F9E2AF",
			TokenStatusError:         "#F38BA8",
			TokenBorderDefault:       "#45475A",
			TokenBorderFocus:         "#CBA6F7",
			TokenSelectionBackground: "#313244",
			TokenButtonBackground:    "#CBA6F7",
			TokenButtonText:          "#1E1E2E",
			TokenConfidenceHigh:      "#A6E3A1",
			TokenConfidenceMedium:    "#F9E2AF",
			TokenConfidenceLow:       "#F38BA8",
			TokenTool:                "#89B4FA",
			TokenAgent:               "#F5C2E7",
			TokenDiffInsert:          "#A6E3A1",
			TokenDiffDelete:          "#F38BA8",
		},
	},
	"catppuccin-latte": {
		Name:        "catppuccin-latte",
		Description: "Warm, cozy light theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:         "#4C4F69",
			TokenTextSecondary:       "#5C5F77",
			TokenTextMuted:           "#9CA0B0",
			TokenStatusSuccess:       "#40A02B",
			TokenStatusWarning:       "#DF8E1D",
			TokenStatusError:         "#D20F39",
			TokenBorderDefault:       "#BCC0CC",
			TokenBorderFocus:         "#8839EF",
			TokenSelectionBackground: "#CCD0DA",
			TokenButtonBackground:    "#8839EF",
			TokenButtonText:          "#EFF1F5",
			TokenConfidenceHigh:      "#40A02B",
			TokenConfidenceMedium:    "#DF8E1D",
			TokenConfidenceLow:       "#D20F39",
			TokenTool:                "#1E66F5",
			TokenAgent:               "#EA76CB",
			TokenDiffInsert:          "#40A02B",
			TokenDiffDelete:          "#D20F39",
		},
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dark theme with vibrant colors",
		Colors: map[ColorToken]string{
			TokenTextPrimary:         "#F8F8F2",
			TokenTextSecondary:       "#BFBFBF",
			TokenTextMuted:           "#6272A4",
			TokenStatusSuccess:       "#50FA7B",
			TokenStatusWarning:       "#F1FA8C",
			TokenStatusError:         "#FF5555",
			TokenBorderDefault:       "#44475A",
			TokenBorderFocus:         "#BD93F9",
			TokenSelectionBackground: "#44475A",
			TokenButtonBackground:    "#BD93F9",
			TokenButtonText:          "#282A36",
			TokenConfidenceHigh:      "#50FA7B",
			TokenConfidenceMedium:    "#FFB86C",
			TokenConfidenceLow:       "#FF5555",
			TokenTool:                "#8BE9FD",
			TokenAgent:               "#FF79C6",
			TokenDiffInsert:          "#50FA7B",
			TokenDiffDelete:          "#FF5555",
		},
	},
	"nord": {
		Name:        "nord",
		Description: "Arctic, north-bluish palette",
		Colors: map[ColorToken]string{
			TokenTextPrimary:         "#ECEFF4",
			TokenTextSecondary:       "#D8DEE9",
			TokenTextMuted:           "#4C566A",
			TokenStatusSuccess:       "#A3BE8C",
			TokenStatusWarning:       "#EBCB8B",
			TokenStatusError:         "#BF616A",
			TokenBorderDefault:       "#434C5E",
			TokenBorderFocus:         "#88C0D0",
			TokenSelectionBackground: "#3B4252",
			TokenButtonBackground:    "#88C0D0",
			TokenButtonText:          "#2E3440",
			TokenConfidenceHigh:      "#A3BE8C",
			TokenConfidenceMedium:    "#EBCB8B",
			TokenConfidenceLow:       "#BF616A",
			TokenTool:                "#81A1C1",
			TokenAgent:               "#B48EAD",
			TokenDiffInsert:          "#A3BE8C",
			TokenDiffDelete:          "#BF616A",
		},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:         "#FFFFFF",
			TokenTextSecondary:       "#FFFFFF",
			TokenTextMuted:           "#C0C0C0",
			TokenStatusSuccess:       "#00FF00",
			TokenStatusWarning:       "#FFFF00",
			TokenStatusError:         "#FF0000",
			TokenBorderDefault:       "#FFFFFF",
			TokenBorderFocus:         "#00FFFF",
			TokenSelectionBackground: "#0000AA",
			TokenButtonBackground:    "#FFFF00",
			TokenButtonText:          "#000000",
			TokenConfidenceHigh:      "#00FF00",
			TokenConfidenceMedium:    "#FFFF00",
			TokenConfidenceLow:       "#FF0000",
			TokenTool:                "#00FFFF",
			TokenAgent:               "#FF00FF",
			TokenDiffInsert:          "#00FF00",
			TokenDiffDelete:          "#FF0000",
		},
	},
}
