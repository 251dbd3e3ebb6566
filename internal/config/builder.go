package config

import "time"

// ConfigBuilder provides a fluent interface for building configurations
// in code, mostly for tests and embedding.
//
// Usage:
//
//	config, err := NewConfigBuilder().
//	    WithLogLevel("debug").
//	    WithSeparator(";").
//	    Build()
type ConfigBuilder struct {
	config     *Config
	validators []ValidatorFunc
}

// ValidatorFunc represents a configuration validation function
type ValidatorFunc func(*Config) error

// NewConfigBuilder creates a new configuration builder starting from
// Default.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: Default()}
}

func (cb *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	cb.config.Log.Level = level
	return cb
}

func (cb *ConfigBuilder) WithLogFormat(format string) *ConfigBuilder {
	cb.config.Log.Format = format
	return cb
}

func (cb *ConfigBuilder) WithSeparator(separator string) *ConfigBuilder {
	cb.config.List.Separator = separator
	return cb
}

func (cb *ConfigBuilder) WithDeduplicate(enabled bool) *ConfigBuilder {
	cb.config.List.Deduplicate = enabled
	return cb
}

func (cb *ConfigBuilder) WithDebounce(child, file time.Duration) *ConfigBuilder {
	cb.config.Watcher.Debounce = child
	cb.config.Watcher.FileDebounce = file
	return cb
}

func (cb *ConfigBuilder) WithKeepGoing(enabled bool) *ConfigBuilder {
	cb.config.Scenario.KeepGoing = enabled
	return cb
}

// WithValidator adds a validator run by Build after the built-in checks.
func (cb *ConfigBuilder) WithValidator(validator ValidatorFunc) *ConfigBuilder {
	cb.validators = append(cb.validators, validator)
	return cb
}

// Build validates and returns the configuration.
func (cb *ConfigBuilder) Build() (*Config, error) {
	if result := ValidateConfig(cb.config); result.HasErrors() {
		return nil, result
	}
	for _, validator := range cb.validators {
		if err := validator(cb.config); err != nil {
			return nil, err
		}
	}
	config := *cb.config
	return &config, nil
}
