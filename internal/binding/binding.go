// Package binding associates DOM-like nodes with the capabilities mixins
// install on them. Each node gets one Host; each mixin owns one named slot
// on that Host. Installing into an occupied slot returns the existing
// value, so re-applying a mixin never resets its state.
package binding

import (
	"sort"
	"sync"

	"github.com/conneroisu/chassis/internal/dom"
)

// Host is the wrapper around a node that carries mixin capabilities.
type Host struct {
	node  *dom.Node
	mu    sync.Mutex
	slots map[string]any
}

func newHost(node *dom.Node) *Host {
	return &Host{node: node, slots: make(map[string]any)}
}

// Node returns the wrapped node.
func (h *Host) Node() *dom.Node { return h.node }

// Lookup returns the value installed under name.
func (h *Host) Lookup(name string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.slots[name]
	return v, ok
}

// Ensure returns the value under name, building and storing it first if
// the slot is empty. created reports whether build ran. build runs with
// the host locked and must not call back into this Host.
func (h *Host) Ensure(name string, build func() (any, error)) (value any, created bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.slots[name]; ok {
		return v, false, nil
	}

	v, err := build()
	if err != nil {
		return nil, false, err
	}
	h.slots[name] = v
	return v, true, nil
}

// Mixins returns the names of the installed mixins, sorted.
func (h *Host) Mixins() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.slots))
	for name := range h.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store maps nodes to their Host.
type Store struct {
	mu    sync.RWMutex
	hosts map[*dom.Node]*Host
	order []*dom.Node
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{hosts: make(map[*dom.Node]*Host)}
}

// Host returns the Host for node, creating it on first use.
func (s *Store) Host(node *dom.Node) *Host {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.hosts[node]; ok {
		return h
	}
	h := newHost(node)
	s.hosts[node] = h
	s.order = append(s.order, node)
	return h
}

// Lookup returns the Host for node if one exists.
func (s *Store) Lookup(node *dom.Node) (*Host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hosts[node]
	return h, ok
}

// Hosts returns every Host in creation order.
func (s *Store) Hosts() []*Host {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Host, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.hosts[n])
	}
	return out
}

// Len returns the number of hosts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hosts)
}
