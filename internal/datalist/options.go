package datalist

import (
	"regexp"
	"strings"
)

// Attribute names read from the host when the mixin is installed.
const (
	AttrSeparator        = "separator"
	AttrDeduplicate      = "deduplicate"
	AttrDeduplicateInput = "deduplicateinput"
	AttrFor              = "for"
)

// DefaultSeparator is used when the host declares none.
const DefaultSeparator = ","

// Options configures a List.
type Options struct {
	// Separator splits raw input text. Matched literally.
	Separator string
	// Pattern, when set, splits raw input instead of Separator.
	Pattern *regexp.Regexp
	// Deduplicate keeps stored values unique.
	Deduplicate bool
	// DeduplicateInput drops repeated tokens when splitting raw input.
	DeduplicateInput bool
}

// DefaultOptions returns the options a host without attributes gets.
func DefaultOptions() Options {
	return Options{
		Separator:        DefaultSeparator,
		Deduplicate:      true,
		DeduplicateInput: true,
	}
}

// AttributeReader is the part of a node options are read from.
type AttributeReader interface {
	GetAttribute(name string) (string, bool)
}

// OptionsFromAttributes resolves options from host attributes, falling
// back to defaults for anything the host does not declare. Boolean
// attributes are on only when their value is "true"; deduplicateInput
// follows deduplicate when absent.
func OptionsFromAttributes(node AttributeReader, defaults Options) Options {
	opts := defaults
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if node == nil {
		return opts
	}

	if sep, ok := node.GetAttribute(AttrSeparator); ok && sep != "" {
		opts.Separator = sep
	}

	if v, ok := node.GetAttribute(AttrDeduplicate); ok {
		opts.Deduplicate = isTrue(v)
		opts.DeduplicateInput = opts.Deduplicate
	}

	if v, ok := node.GetAttribute(AttrDeduplicateInput); ok {
		opts.DeduplicateInput = isTrue(v)
	}

	return opts
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
