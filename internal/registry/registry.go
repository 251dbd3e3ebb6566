// Package registry holds the named mixins an application can apply and
// forwards apply targets to their installers.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/logging"
)

// Installer installs one mixin on one node.
type Installer func(ctx context.Context, node *dom.Node) error

// MixinInfo describes a registered mixin.
type MixinInfo struct {
	Name        string
	Description string
	Install     Installer
	Registered  time.Time
}

// MixinEvent represents a change in the registry.
type MixinEvent struct {
	Type      EventType
	Mixin     *MixinInfo
	Timestamp time.Time
}

// EventType represents the type of registry event.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Registry maps mixin names to installers. Re-registering a name
// replaces the previous installer.
type Registry struct {
	mixins   map[string]*MixinInfo
	mutex    sync.RWMutex
	watchers []chan MixinEvent
	doc      *dom.Document
	logger   logging.Logger
}

// NewRegistry creates a registry whose selector targets resolve against
// doc.
func NewRegistry(doc *dom.Document, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registry{
		mixins:   make(map[string]*MixinInfo),
		watchers: make([]chan MixinEvent, 0),
		doc:      doc,
		logger:   logger.WithComponent("registry"),
	}
}

// Register adds or replaces a mixin.
func (r *Registry) Register(mixin *MixinInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.mixins[mixin.Name]; exists {
		eventType = EventTypeUpdated
	}
	if mixin.Registered.IsZero() {
		mixin.Registered = time.Now()
	}
	r.mixins[mixin.Name] = mixin

	r.notifyLocked(MixinEvent{Type: eventType, Mixin: mixin, Timestamp: time.Now()})
}

// Get retrieves a mixin by name.
func (r *Registry) Get(name string) (*MixinInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	mixin, exists := r.mixins[name]
	return mixin, exists
}

// GetAll returns every registered mixin.
func (r *Registry) GetAll() map[string]*MixinInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*MixinInfo, len(r.mixins))
	for name, mixin := range r.mixins {
		result[name] = mixin
	}
	return result
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.mixins))
	for name := range r.mixins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove removes a mixin. Hosts it was applied to keep their capability.
func (r *Registry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	mixin, exists := r.mixins[name]
	if !exists {
		return
	}
	delete(r.mixins, name)

	r.notifyLocked(MixinEvent{Type: EventTypeRemoved, Mixin: mixin, Timestamp: time.Now()})
}

func (r *Registry) notifyLocked(event MixinEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Watch returns a channel that receives registry events.
func (r *Registry) Watch() <-chan MixinEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan MixinEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *Registry) UnWatch(ch <-chan MixinEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered mixins.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.mixins)
}
