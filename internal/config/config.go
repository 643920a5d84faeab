// Package config provides configuration types and defaults for stepflow.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration options for stepflow.
type Config struct {
	// Seed fixes the simulated assistant's randomness. 0 seeds from the clock.
	Seed          uint64           `mapstructure:"seed"`
	TemplatesFile string           `mapstructure:"templates_file"`
	WatchConfig   bool             `mapstructure:"watch_config"`
	Simulation    SimulationConfig `mapstructure:"simulation"`
	UI            UIConfig         `mapstructure:"ui"`
	Theme         ThemeConfig      `mapstructure:"theme"`
	Archive       ArchiveConfig    `mapstructure:"archive"`
	Hooks         HooksConfig      `mapstructure:"hooks"`
	Tracing       TracingConfig    `mapstructure:"tracing"`
	Log           LogConfig        `mapstructure:"log"`
}

// SimulationConfig controls the latency of the simulated assistant.
type SimulationConfig struct {
	// Instant skips every delay.
	Instant     bool          `mapstructure:"instant"`
	GenerateMin time.Duration `mapstructure:"generate_min"`
	GenerateMax time.Duration `mapstructure:"generate_max"`
	Revise      time.Duration `mapstructure:"revise"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ReviewThreshold  float64 `mapstructure:"review_threshold"`
	CautionThreshold float64 `mapstructure:"caution_threshold"`
	MinutesPerStep   int     `mapstructure:"minutes_per_step"`
	Mouse            bool    `mapstructure:"mouse"`
	ShowHelp         bool    `mapstructure:"show_help"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Keys use dot notation: "text.primary", "confidence.low", etc.
	Colors map[string]string `mapstructure:"colors"`
}

// ArchiveConfig controls the local ledger of approved workflows.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // sqlite file; empty uses the default location
}

// HookConfig is a shell command run after a workflow is approved.
// Command is a text/template rendered with the approval.
type HookConfig struct {
	Description string `mapstructure:"description"`
	Command     string `mapstructure:"command"`
}

// HooksConfig groups lifecycle hooks.
type HooksConfig struct {
	OnApprove []HookConfig `mapstructure:"on_approve"`
}

// Tracing exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TracingConfig selects where spans are exported.
type TracingConfig struct {
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"` // otlp: host:port
	Insecure bool   `mapstructure:"insecure"`
	File     string `mapstructure:"file"` // stdout: write to this file instead of stderr
}

// LogConfig configures the debug log file.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Simulation: SimulationConfig{
			GenerateMin: 2 * time.Second,
			GenerateMax: 3 * time.Second,
			Revise:      1500 * time.Millisecond,
		},
		UI: UIConfig{
			ReviewThreshold:  0.8,
			CautionThreshold: 0.9,
			MinutesPerStep:   15,
			Mouse:            true,
			ShowHelp:         true,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks the configuration for errors. All problems are reported.
func (c Config) Validate() error {
	var errs []error

	if err := ValidateSimulation(c.Simulation); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateUI(c.UI); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		errs = append(errs, err)
	}
	for i, hook := range c.Hooks.OnApprove {
		if strings.TrimSpace(hook.Command) == "" {
			errs = append(errs, fmt.Errorf("hooks.on_approve[%d]: command is required", i))
		}
	}
	switch c.Theme.Mode {
	case "", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("theme.mode: must be light, dark or empty, got %q", c.Theme.Mode))
	}

	return errors.Join(errs...)
}

// ValidateSimulation checks simulated delays.
func ValidateSimulation(s SimulationConfig) error {
	if s.GenerateMin < 0 || s.GenerateMax < 0 || s.Revise < 0 {
		return errors.New("simulation: delays must not be negative")
	}
	if s.GenerateMax < s.GenerateMin {
		return fmt.Errorf("simulation: generate_max (%s) is less than generate_min (%s)", s.GenerateMax, s.GenerateMin)
	}
	return nil
}

// ValidateUI checks confidence thresholds and the time estimate.
func ValidateUI(u UIConfig) error {
	for name, v := range map[string]float64{
		"review_threshold":  u.ReviewThreshold,
		"caution_threshold": u.CautionThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("ui.%s: must be within [0, 1], got %v", name, v)
		}
	}
	if u.CautionThreshold < u.ReviewThreshold {
		return fmt.Errorf("ui: caution_threshold (%v) is below review_threshold (%v)", u.CautionThreshold, u.ReviewThreshold)
	}
	if u.MinutesPerStep <= 0 {
		return fmt.Errorf("ui.minutes_per_step: must be positive, got %d", u.MinutesPerStep)
	}
	return nil
}

// ValidateTracing checks the exporter selection.
func ValidateTracing(t TracingConfig) error {
	switch t.Exporter {
	case "", ExporterNone, ExporterStdout:
		return nil
	case ExporterOTLP:
		if t.Endpoint == "" {
			return errors.New("tracing: endpoint is required for the otlp exporter")
		}
		return nil
	default:
		return fmt.Errorf("tracing.exporter: unknown exporter %q", t.Exporter)
	}
}

// Dir returns the stepflow configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(base, "stepflow"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ArchivePath returns the archive database path, falling back to
// approvals.db next to the config file.
func (c Config) ArchivePath() (string, error) {
	if c.Archive.Path != "" {
		return c.Archive.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "approvals.db"), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# stepflow configuration

# Seed for the simulated assistant (0 = different every run)
seed: 0

# Replace the built-in step templates with your own YAML pool
# templates_file: ~/.config/stepflow/templates.yaml

# Re-apply theme changes while the app is running
watch_config: false

# Simulated assistant latency
simulation:
  instant: false       # Skip all delays
  generate_min: 2s
  generate_max: 3s
  revise: 1500ms

# UI settings
ui:
  review_threshold: 0.8   # Steps below this are flagged "needs review"
  caution_threshold: 0.9  # Steps below this get a caution badge
  minutes_per_step: 15    # Used for the time estimate on the confirmation screen
  mouse: true             # Click step cards to select them
  show_help: true         # Show key hints at the bottom

# Theme configuration
# Use a preset theme or customize individual colors
theme:
  # Use a preset (run 'stepflow themes' to see available presets):
  # preset: catppuccin-mocha
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   text.primary: "#FFFFFF"
  #   confidence.low: "#FF5555"

# Approved workflows are recorded in a local sqlite ledger
# (list them with 'stepflow approvals')
archive:
  enabled: true
  # path: ~/.config/stepflow/approvals.db

# Commands run after a workflow is approved.
# The command is a Go template with .ID, .Prompt, .StepCount and .File
# (the approved workflow written as YAML to a temporary file).
hooks:
  on_approve: []
  # - description: Notify
  #   command: notify-send "Approved {{.StepCount}} steps"

# Tracing of simulated assistant calls
tracing:
  exporter: none   # none | stdout | otlp
  # endpoint: localhost:4317
  # insecure: true
  # file: /tmp/stepflow-trace.json

# Debug log (also enabled with --debug)
log:
  # file: /tmp/stepflow.log
  level: info
  max_size_mb: 10
  max_backups: 3
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
