package datalist

import (
	"sync"

	"github.com/conneroisu/chassis/internal/core"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/events"
)

// List is an ordered collection of values bound to a host. All mutations
// are serialized; events are dispatched after the lock is released, so
// listeners may read the list or mutate it again.
type List[T comparable] struct {
	mu      sync.Mutex
	items   []T
	opts    Options
	host    events.Dispatcher
	emitter *events.Emitter
}

// New creates an empty list that emits on host. A nil emitter uses the
// package-level one.
func New[T comparable](host events.Dispatcher, opts Options, emitter *events.Emitter) *List[T] {
	if emitter == nil {
		emitter = events.NewEmitter(nil)
	}
	return &List[T]{
		items:   make([]T, 0),
		opts:    opts,
		host:    host,
		emitter: emitter,
	}
}

// Options returns the current options.
func (l *List[T]) Options() Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opts
}

// SetOptions replaces the options. Stored values are left alone until the
// next mutation.
func (l *List[T]) SetOptions(opts Options) {
	l.mu.Lock()
	l.opts = opts
	l.mu.Unlock()
}

// Data returns a copy of the stored values.
func (l *List[T]) Data() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of stored values.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// IndexOf returns the position of the first value equal to v, or -1.
func (l *List[T]) IndexOf(v T) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.IndexOf(l.items, v)
}

// Add appends values. create reports the values that were not stored
// before the call. With deduplication on, exactly those are appended;
// without it, every value is appended.
func (l *List[T]) Add(values ...T) error {
	if len(values) == 0 {
		return errors.NewMissingArgumentError("add")
	}

	l.mu.Lock()
	incoming := values
	if l.opts.Deduplicate {
		incoming = core.Deduplicate(values)
	}
	added := make([]T, 0, len(incoming))
	for _, v := range incoming {
		if !core.Contains(l.items, v) {
			added = append(added, v)
		}
	}
	if l.opts.Deduplicate {
		l.items = append(l.items, added...)
	} else {
		l.items = append(l.items, values...)
	}
	dropped := l.compactLocked()
	l.mu.Unlock()

	l.emit(events.NameCreate, events.DataDetail[T]{Data: added})
	l.emit(events.NameUpdate, events.UpdateDetail[T]{
		Created:  added,
		Deleted:  dropped,
		Modified: []events.Modification[T]{},
	})
	return nil
}

// Append is an alias of Add.
func (l *List[T]) Append(values ...T) error {
	return l.Add(values...)
}

// Remove deletes the values at the given positions. Positions that do not
// exist are ignored. Called with no positions, or with -1 first, it clears
// the list instead.
func (l *List[T]) Remove(indexes ...int) error {
	if len(indexes) == 0 || indexes[0] == -1 {
		l.Clear()
		return nil
	}
	return l.removeAt(indexes)
}

// removeAt deletes the values at the given positions of the current list.
// Positions outside the list match nothing.
func (l *List[T]) removeAt(indexes []int) error {
	marked := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		marked[i] = struct{}{}
	}

	l.mu.Lock()
	removed := make([]T, 0, len(marked))
	kept := make([]T, 0, len(l.items))
	for i, v := range l.items {
		if _, ok := marked[i]; ok {
			removed = append(removed, v)
			continue
		}
		kept = append(kept, v)
	}
	l.items = kept
	l.mu.Unlock()

	l.emit(events.NameDelete, events.DataDetail[T]{Data: removed})
	l.emit(events.NameUpdate, events.UpdateDetail[T]{
		Created:  []T{},
		Deleted:  removed,
		Modified: []events.Modification[T]{},
	})
	return nil
}

// Clear empties the list.
func (l *List[T]) Clear() {
	l.mu.Lock()
	original := l.items
	l.items = make([]T, 0)
	l.mu.Unlock()

	l.emit(events.NameRemove, events.DataDetail[T]{Data: original})
	l.emit(events.NameUpdate, events.UpdateDetail[T]{
		Created:  []T{},
		Deleted:  original,
		Modified: []events.Modification[T]{},
	})
}

// SetItem replaces the value at index. With deduplication on, a value that
// now occurs twice keeps only its first occurrence; the dropped copy is
// reported as deleted in the update event.
func (l *List[T]) SetItem(index int, value T) error {
	l.mu.Lock()
	if index < 0 || index >= len(l.items) {
		max := len(l.items) - 1
		if max < 0 {
			max = 0
		}
		l.mu.Unlock()
		return errors.NewIndexOutOfRangeError(index, max)
	}

	old := l.items[index]
	l.items[index] = value
	dropped := l.compactLocked()
	l.mu.Unlock()

	l.emit(events.NameModify, events.ModifyDetail[T]{Index: index, Old: old, New: value})
	l.emit(events.NameUpdate, events.UpdateDetail[T]{
		Created: []T{},
		Deleted: dropped,
		Modified: []events.Modification[T]{
			{Old: old, New: value, Index: index},
		},
	})
	return nil
}

// compactLocked enforces uniqueness when deduplication is on and returns
// the dropped values.
func (l *List[T]) compactLocked() []T {
	dropped := make([]T, 0)
	if !l.opts.Deduplicate {
		return dropped
	}

	seen := make(map[T]struct{}, len(l.items))
	kept := l.items[:0]
	for _, v := range l.items {
		if _, dup := seen[v]; dup {
			dropped = append(dropped, v)
			continue
		}
		seen[v] = struct{}{}
		kept = append(kept, v)
	}
	l.items = kept
	return dropped
}

func (l *List[T]) emit(name string, payload any) {
	l.emitter.Emit(l.host, name, payload)
}
