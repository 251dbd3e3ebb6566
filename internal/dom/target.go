package dom

import "sync"

// ListenerFunc is an event listener callback.
type ListenerFunc func(ev *Event)

// ListenerID identifies a registered listener. Go functions are not
// comparable, so removal goes through the ID returned on registration.
type ListenerID uint64

type listenerEntry struct {
	id       ListenerID
	listener ListenerFunc
	once     bool
}

// EventTarget keeps per-type listener lists in registration order.
type EventTarget struct {
	listeners map[string][]listenerEntry
	nextID    ListenerID
	mu        sync.RWMutex
}

func newEventTarget() *EventTarget {
	return &EventTarget{
		listeners: make(map[string][]listenerEntry),
		nextID:    1,
	}
}

func (et *EventTarget) add(eventType string, listener ListenerFunc, once bool) ListenerID {
	if listener == nil {
		return 0
	}

	et.mu.Lock()
	defer et.mu.Unlock()

	id := et.nextID
	et.nextID++
	et.listeners[eventType] = append(et.listeners[eventType], listenerEntry{
		id:       id,
		listener: listener,
		once:     once,
	})
	return id
}

func (et *EventTarget) remove(eventType string, id ListenerID) bool {
	et.mu.Lock()
	defer et.mu.Unlock()

	entries := et.listeners[eventType]
	for i, entry := range entries {
		if entry.id == id {
			et.listeners[eventType] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

func (et *EventTarget) count(eventType string) int {
	et.mu.RLock()
	defer et.mu.RUnlock()
	return len(et.listeners[eventType])
}

// dispatch runs the listeners registered for ev.Type at the time of the
// call. Listener panics propagate to the caller.
func (et *EventTarget) dispatch(ev *Event) {
	et.mu.RLock()
	entries := make([]listenerEntry, len(et.listeners[ev.Type]))
	copy(entries, et.listeners[ev.Type])
	et.mu.RUnlock()

	for _, entry := range entries {
		if ev.immediatePropagationStopped {
			break
		}
		if entry.once {
			et.remove(ev.Type, entry.id)
		}
		entry.listener(ev)
	}
}
