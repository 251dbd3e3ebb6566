package watcher

import (
	"sync"
	"time"

	"github.com/conneroisu/chassis/internal/dom"
)

// DefaultChildDelay is the batching window used when none is configured.
const DefaultChildDelay = 10 * time.Millisecond

// ChildCallback receives the watched host and one child-list record.
type ChildCallback func(host *dom.Node, record dom.MutationRecord)

// ChildOptions configures a ChildWatcher.
type ChildOptions struct {
	// Recursive also reports child-list changes anywhere below the host.
	Recursive bool
	// Delay is the batching window. Zero still delivers asynchronously.
	Delay time.Duration
	// MaxWait bounds how long a steady stream of changes can hold back
	// delivery. Zero means ten windows, at least DefaultChildDelay.
	MaxWait time.Duration
}

// ChildWatcher observes insertion and removal of a host's children.
// Attribute and character-data changes are ignored. Records are batched
// and delivered on a later goroutine, one callback per record, in the
// order the changes happened.
type ChildWatcher struct {
	host      *dom.Node
	callback  ChildCallback
	debouncer *Debouncer[dom.MutationRecord]
	stopObs   func()
	stopOnce  sync.Once
}

// WatchChildren starts observing host. The caller owns the returned
// watcher and must Stop it when done.
func WatchChildren(host *dom.Node, callback ChildCallback, opts ChildOptions) *ChildWatcher {
	cw := &ChildWatcher{host: host, callback: callback}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = max(10*opts.Delay, DefaultChildDelay)
	}
	cw.debouncer = NewDebouncer(opts.Delay, nil, cw.deliver).WithMaxWait(maxWait)
	cw.stopObs = host.ObserveMutations(func(record dom.MutationRecord) {
		if record.Type != dom.MutationChildList {
			return
		}
		cw.debouncer.Add(record)
	}, opts.Recursive)
	return cw
}

func (cw *ChildWatcher) deliver(batch []dom.MutationRecord) {
	for _, record := range batch {
		cw.callback(cw.host, record)
	}
}

// Host returns the observed node.
func (cw *ChildWatcher) Host() *dom.Node { return cw.host }

// Flush delivers any queued records now, on the calling goroutine.
func (cw *ChildWatcher) Flush() { cw.debouncer.Flush() }

// Stop ends observation and discards undelivered records. Safe to call
// more than once.
func (cw *ChildWatcher) Stop() {
	cw.stopOnce.Do(func() {
		cw.stopObs()
		cw.debouncer.Stop()
	})
}
