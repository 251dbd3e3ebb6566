// Package config provides configuration management for chassis using
// Viper for loading from files, environment variables and command-line
// flags.
//
// The configuration covers logging, the defaults list hosts fall back to
// when they declare no attributes, the batching windows of the watchers
// and scenario runner behavior. Environment overrides use the CHASSIS_
// prefix, with dots in keys replaced by underscores.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/chassis/internal/errors"
)

type Config struct {
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	List     ListConfig     `json:"list" yaml:"list" mapstructure:"list"`
	Watcher  WatcherConfig  `json:"watcher" yaml:"watcher" mapstructure:"watcher"`
	Scenario ScenarioConfig `json:"scenario" yaml:"scenario" mapstructure:"scenario"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	// File additionally writes JSON logs to this path when set.
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

type ListConfig struct {
	Separator   string `json:"separator" yaml:"separator" mapstructure:"separator"`
	Deduplicate bool   `json:"deduplicate" yaml:"deduplicate" mapstructure:"deduplicate"`
}

type WatcherConfig struct {
	Debounce     time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
	FileDebounce time.Duration `json:"file_debounce" yaml:"file_debounce" mapstructure:"file_debounce"`
}

type ScenarioConfig struct {
	KeepGoing bool `json:"keep_going" yaml:"keep_going" mapstructure:"keep_going"`
}

// Default values.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSeparator    = ","
	DefaultDebounce     = 10 * time.Millisecond
	DefaultFileDebounce = 200 * time.Millisecond
)

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	v.SetDefault("list.separator", DefaultSeparator)
	v.SetDefault("list.deduplicate", true)
	v.SetDefault("watcher.debounce", DefaultDebounce)
	v.SetDefault("watcher.file_debounce", DefaultFileDebounce)
	v.SetDefault("scenario.keep_going", false)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads, defaults and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError("failed to decode configuration", err)
	}

	// Empty strings in a file would otherwise shadow the defaults.
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
	if config.List.Separator == "" {
		config.List.Separator = DefaultSeparator
	}

	if result := ValidateConfig(&config); result.HasErrors() {
		return nil, errors.NewConfigError("invalid configuration", result)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		List:    ListConfig{Separator: DefaultSeparator, Deduplicate: true},
		Watcher: WatcherConfig{Debounce: DefaultDebounce, FileDebounce: DefaultFileDebounce},
	}
}
