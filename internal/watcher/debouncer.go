package watcher

import (
	"sync"
	"time"
)

// Debouncer groups rapid events together and hands each group to a flush
// function once no new event has arrived for delay, or once the oldest
// queued event has waited maxWait. A zero delay still defers delivery to
// another goroutine.
type Debouncer[T any] struct {
	delay   time.Duration
	maxWait time.Duration
	keyFunc func(T) string
	flushFn func([]T)

	mutex   sync.Mutex
	timer   *time.Timer
	pending []T
	first   time.Time
	stopped bool

	// delivering is set while a Flush runs flushFn. Only that Flush
	// delivers, so batches arrive in order and flushFn may call Flush.
	delivering bool
}

// NewDebouncer creates a debouncer. When keyFunc is non-nil, events with
// the same key collapse into the latest one, kept at the position of the
// first.
func NewDebouncer[T any](delay time.Duration, keyFunc func(T) string, flush func([]T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:   delay,
		keyFunc: keyFunc,
		flushFn: flush,
		pending: make([]T, 0),
	}
}

// WithMaxWait caps how long a queued event can be held back by a stream
// of later events. Zero disables the cap.
func (d *Debouncer[T]) WithMaxWait(maxWait time.Duration) *Debouncer[T] {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.maxWait = maxWait
	return d
}

// Add queues an event and restarts the quiet period, never past the
// max wait of the oldest queued event.
func (d *Debouncer[T]) Add(event T) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}

	now := time.Now()
	if len(d.pending) == 0 {
		d.first = now
	}
	d.pending = append(d.pending, event)

	wait := d.delay
	if d.maxWait > 0 {
		if left := d.first.Add(d.maxWait).Sub(now); left < wait {
			wait = max(left, 0)
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(wait, d.Flush)
}

// Pending returns the number of queued events.
func (d *Debouncer[T]) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.pending)
}

// Flush delivers queued events immediately on the calling goroutine. If
// a delivery is already running, including one that called Flush from
// flushFn, the events are left to it and Flush returns at once.
func (d *Debouncer[T]) Flush() {
	d.mutex.Lock()
	if d.delivering {
		d.mutex.Unlock()
		return
	}
	d.delivering = true
	d.mutex.Unlock()

	done := false
	defer func() {
		if !done {
			d.mutex.Lock()
			d.delivering = false
			d.mutex.Unlock()
		}
	}()

	for {
		batch, ok := d.take()
		if !ok {
			done = true
			return
		}
		d.flushFn(batch)
	}
}

// take removes the queued events as one batch. When nothing is left it
// ends the delivery under the same lock, so an event queued right after
// is flushed by its own timer.
func (d *Debouncer[T]) take() ([]T, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 || d.stopped {
		d.delivering = false
		return nil, false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	batch := d.collapse(d.pending)
	d.pending = make([]T, 0)
	return batch, true
}

func (d *Debouncer[T]) collapse(events []T) []T {
	if d.keyFunc == nil {
		out := make([]T, len(events))
		copy(out, events)
		return out
	}

	index := make(map[string]int, len(events))
	out := make([]T, 0, len(events))
	for _, ev := range events {
		key := d.keyFunc(ev)
		if i, ok := index[key]; ok {
			out[i] = ev
			continue
		}
		index[key] = len(out)
		out = append(out, ev)
	}
	return out
}

// Stop cancels the timer and drops queued events. Later events are ignored.
func (d *Debouncer[T]) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
