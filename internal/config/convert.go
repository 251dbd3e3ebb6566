package config

import (
	"io"

	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/conneroisu/chassis/internal/logging"
)

// ListDefaults returns the options every list host starts from before its
// attributes are read.
func (c *Config) ListDefaults() datalist.Options {
	return datalist.Options{
		Separator:        c.List.Separator,
		Deduplicate:      c.List.Deduplicate,
		DeduplicateInput: c.List.Deduplicate,
	}
}

// LoggerConfig returns the console logger configuration writing to out.
func (c *Config) LoggerConfig(out io.Writer) (*logging.LoggerConfig, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return &logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
		Output: out,
	}, nil
}
