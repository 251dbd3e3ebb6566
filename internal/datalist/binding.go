package datalist

import (
	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/core"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
)

// Binding is the datalist capability installed on a host. It adapts the
// loosely typed mixin call conventions onto a List[string].
type Binding struct {
	node *dom.Node
	list *List[string]
}

var _ binding.ListDataCapable = (*Binding)(nil)

// Node returns the host node.
func (b *Binding) Node() *dom.Node { return b.node }

// List returns the typed engine.
func (b *Binding) List() *List[string] { return b.list }

// Data returns a copy of the stored values.
func (b *Binding) Data() []string { return b.list.Data() }

// Add appends strings, flattening one level of slices.
func (b *Binding) Add(args ...any) error {
	if len(args) == 0 {
		return errors.NewMissingArgumentError("add")
	}
	values, err := core.SpliceOf[string](args...)
	if err != nil {
		return errors.NewInvalidArgumentError("add", err)
	}
	return b.list.Add(values...)
}

// Append is an alias of Add.
func (b *Binding) Append(args ...any) error { return b.Add(args...) }

// Remove deletes by position, flattening one level of slices. No
// arguments, a leading nil or a leading -1 clear the list. The clear
// check looks at the arguments as passed, so []int{-1} removes nothing.
func (b *Binding) Remove(indexes ...any) error {
	if len(indexes) == 0 || indexes[0] == nil {
		b.list.Clear()
		return nil
	}
	if first, ok := indexes[0].(int); ok && first == -1 {
		b.list.Clear()
		return nil
	}
	positions, err := core.SpliceOf[int](indexes...)
	if err != nil {
		return errors.NewInvalidArgumentError("remove", err)
	}
	return b.list.removeAt(positions)
}

// Clear empties the list.
func (b *Binding) Clear() { b.list.Clear() }

// SetItem replaces the value at index.
func (b *Binding) SetItem(index int, value string) error {
	return b.list.SetItem(index, value)
}

// IndexOf returns the position of value, or -1.
func (b *Binding) IndexOf(value string) int { return b.list.IndexOf(value) }

// Separator returns the configured input separator.
func (b *Binding) Separator() string { return b.list.Options().Separator }

// Deduplicate reports whether stored values are kept unique.
func (b *Binding) Deduplicate() bool { return b.list.Options().Deduplicate }

// DeduplicateInput reports whether split input drops repeated tokens.
func (b *Binding) DeduplicateInput() bool { return b.list.Options().DeduplicateInput }
