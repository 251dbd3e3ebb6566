package listinput

import (
	"strings"

	"github.com/conneroisu/chassis/internal/core"
	"github.com/conneroisu/chassis/internal/datalist"
)

// Split turns raw input text into list values. Runs of separators count
// as one, tokens are trimmed, empty tokens are dropped and, with
// DeduplicateInput, so are tokens seen earlier in the same text.
func Split(raw string, opts datalist.Options) []string {
	var parts []string
	if opts.Pattern != nil {
		parts = opts.Pattern.Split(raw, -1)
	} else {
		sep := opts.Separator
		if sep == "" {
			sep = datalist.DefaultSeparator
		}
		parts = strings.Split(raw, sep)
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		if opts.DeduplicateInput && core.Contains(out, token) {
			continue
		}
		out = append(out, token)
	}
	return out
}
