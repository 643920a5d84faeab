package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/zjrosen/stepflow/internal/log"
)

// EnvPrefix is the prefix for environment overrides, e.g. STEPFLOW_SEED.
const EnvPrefix = "STEPFLOW"

// SetDefaults registers every default on v so that environment variables
// and flags can override keys that are absent from the file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("seed", d.Seed)
	v.SetDefault("templates_file", d.TemplatesFile)
	v.SetDefault("watch_config", d.WatchConfig)
	v.SetDefault("simulation.instant", d.Simulation.Instant)
	v.SetDefault("simulation.generate_min", d.Simulation.GenerateMin)
	v.SetDefault("simulation.generate_max", d.Simulation.GenerateMax)
	v.SetDefault("simulation.revise", d.Simulation.Revise)
	v.SetDefault("ui.review_threshold", d.UI.ReviewThreshold)
	v.SetDefault("ui.caution_threshold", d.UI.CautionThreshold)
	v.SetDefault("ui.minutes_per_step", d.UI.MinutesPerStep)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.show_help", d.UI.ShowHelp)
	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

// NewViper returns a viper instance with defaults and environment binding
// configured. When path is empty the default location is used and a
// missing file is not an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return v, nil //nolint:nilerr // no config dir means defaults only
		}
		path = p
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			log.Debug(log.CatConfig, "no config file, using defaults", "path", path)
			return v, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	log.Debug(log.CatConfig, "loaded config", "path", v.ConfigFileUsed())
	return v, nil
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		flattenStringMapHook,
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path (or the default location) and
// returns the validated configuration.
func Load(path string) (Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}

var stringMapType = reflect.TypeOf(map[string]string{})

// flattenStringMapHook joins nested keys back into dotted names. Viper
// splits "confidence.low" under theme.colors into nested maps, but the
// theme wants the token names whole.
func flattenStringMapHook(from, to reflect.Type, data any) (any, error) {
	if to != stringMapType || from.Kind() != reflect.Map {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	out := make(map[string]string)
	flattenInto(out, "", m)
	return out, nil
}

func flattenInto(out map[string]string, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = fmt.Sprint(v)
	}
}
