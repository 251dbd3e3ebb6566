// Package listinput turns a text-input host into a list editor. Raw text
// typed into the host is split into values and appended to the host's
// list when the user presses Enter or Submit is called.
package listinput

import (
	"sync"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/watcher"
)

// State is the observable state of the raw text.
type State int

const (
	// StateIdle means the raw text is empty.
	StateIdle State = iota
	// StatePending means raw text is waiting to be submitted.
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Input is the listinput capability installed on a host.
type Input struct {
	*datalist.Binding

	mu      sync.Mutex
	enterID dom.ListenerID
	target  *dom.Node
	watch   *watcher.ChildWatcher
}

var _ binding.ListInputCapable = (*Input)(nil)

// InputField returns the node raw text is read from.
func (in *Input) InputField() *dom.Node { return in.Node() }

// SplitInput splits raw with the host's current options.
func (in *Input) SplitInput(raw string) []string {
	return Split(raw, in.List().Options())
}

// Submit moves the raw text into the list. The raw text is always cleared;
// when it yields no values nothing else happens.
func (in *Input) Submit() error {
	field := in.InputField()
	values := in.SplitInput(field.Value())
	field.SetValue("")
	if len(values) == 0 {
		return nil
	}
	return in.List().Append(values...)
}

// Browse opens the native file picker when the host is a file input.
func (in *Input) Browse() {
	if t, _ := in.Node().GetAttribute("type"); t == "file" {
		in.Node().Click()
	}
}

// State reports whether raw text is waiting to be submitted.
func (in *Input) State() State {
	if in.InputField().Value() != "" {
		return StatePending
	}
	return StateIdle
}

// Pending reports State() == StatePending.
func (in *Input) Pending() bool { return in.State() == StatePending }

// Target returns the node named by the for attribute, if any.
func (in *Input) Target() *dom.Node {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.target
}

// FlushMutations delivers any child changes of the target that are still
// waiting for their batch window.
func (in *Input) FlushMutations() {
	in.mu.Lock()
	w := in.watch
	in.mu.Unlock()
	if w != nil {
		w.Flush()
	}
}

// Close stops watching the target and detaches the Enter handler. The
// list itself stays usable; installing the mixin again re-arms both.
func (in *Input) Close() {
	in.mu.Lock()
	w := in.watch
	in.watch = nil
	in.target = nil
	id := in.enterID
	in.enterID = 0
	in.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	if id != 0 {
		in.Node().RemoveEventListener("keyup", id)
	}
}
