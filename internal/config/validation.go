package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/chassis/internal/logging"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// Error makes a failed result usable as an error cause.
func (vr *ValidationResult) Error() string {
	msgs := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: message})
}

// ValidateConfig checks enumerations, the separator and durations.
func ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		result.addError("log.level", config.Log.Level, "unknown log level",
			"use one of debug, info, warn, error")
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		result.addError("log.format", config.Log.Format, "unknown log format",
			"use text or json")
	}

	if config.List.Separator == "" {
		result.addError("list.separator", config.List.Separator, "separator must not be empty",
			`the default separator is ","`)
	} else if strings.TrimSpace(config.List.Separator) == "" {
		result.addWarning("list.separator", config.List.Separator,
			"whitespace separator: tokens are trimmed, so runs of whitespace act as one separator")
	}

	if config.Watcher.Debounce < 0 {
		result.addError("watcher.debounce", config.Watcher.Debounce, "duration must not be negative")
	}
	if config.Watcher.FileDebounce < 0 {
		result.addError("watcher.file_debounce", config.Watcher.FileDebounce, "duration must not be negative")
	}

	return result
}
