package binding

import "github.com/conneroisu/chassis/internal/dom"

// Slot names used by the built-in mixins.
const (
	SlotDataList  = "datalist"
	SlotListInput = "listinput"
)

// ListDataCapable is the host surface of the datalist mixin. Arguments
// follow the call conventions of the mixin API: Add accepts strings and
// string slices in any mix; Remove accepts ints and int slices, and clears
// the list when called with no arguments, nil or -1.
type ListDataCapable interface {
	Data() []string
	Add(args ...any) error
	Append(args ...any) error
	Remove(indexes ...any) error
	Clear()
	SetItem(index int, value string) error
	IndexOf(value string) int
	Separator() string
	Deduplicate() bool
	DeduplicateInput() bool
}

// ListInputCapable is the host surface of the listinput mixin.
type ListInputCapable interface {
	ListDataCapable
	SplitInput(raw string) []string
	Submit() error
	Browse()
	InputField() *dom.Node
	Pending() bool
}

// DataList returns the datalist capability of h.
func DataList(h *Host) (ListDataCapable, bool) {
	if h == nil {
		return nil, false
	}
	v, ok := h.Lookup(SlotDataList)
	if !ok {
		return nil, false
	}
	c, ok := v.(ListDataCapable)
	return c, ok
}

// ListInput returns the listinput capability of h.
func ListInput(h *Host) (ListInputCapable, bool) {
	if h == nil {
		return nil, false
	}
	v, ok := h.Lookup(SlotListInput)
	if !ok {
		return nil, false
	}
	c, ok := v.(ListInputCapable)
	return c, ok
}
