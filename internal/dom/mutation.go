package dom

import "sync"

// MutationType classifies a mutation record.
type MutationType int

const (
	MutationChildList MutationType = iota
	MutationAttributes
	MutationCharacterData
)

// String returns the DOM name of the mutation type.
func (t MutationType) String() string {
	switch t {
	case MutationChildList:
		return "childList"
	case MutationAttributes:
		return "attributes"
	case MutationCharacterData:
		return "characterData"
	default:
		return "unknown"
	}
}

// MutationRecord describes one elementary change to the tree.
type MutationRecord struct {
	Type          MutationType
	Target        *Node
	AddedNodes    []*Node
	RemovedNodes  []*Node
	AttributeName string
}

// MutationFunc receives raw mutation records synchronously.
type MutationFunc func(record MutationRecord)

type observerEntry struct {
	id      uint64
	fn      MutationFunc
	subtree bool
}

type observerList struct {
	mu      sync.RWMutex
	entries []observerEntry
	nextID  uint64
}

func newObserverList() *observerList {
	return &observerList{nextID: 1}
}

// ObserveMutations registers fn for raw mutation records on n and, when
// subtree is true, on all of n's descendants at the time of each change.
// Records are delivered synchronously and unfiltered; batching and
// filtering belong to the caller. The returned func stops observation.
func (n *Node) ObserveMutations(fn MutationFunc, subtree bool) (stop func()) {
	list := n.observers

	list.mu.Lock()
	id := list.nextID
	list.nextID++
	list.entries = append(list.entries, observerEntry{id: id, fn: fn, subtree: subtree})
	list.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			list.mu.Lock()
			defer list.mu.Unlock()
			for i, e := range list.entries {
				if e.id == id {
					list.entries = append(list.entries[:i:i], list.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// notify delivers record to observers on n, then to subtree observers on
// each ancestor.
func (n *Node) notify(record MutationRecord) {
	for cur, direct := n, true; cur != nil; cur, direct = cur.Parent(), false {
		cur.observers.mu.RLock()
		entries := make([]observerEntry, len(cur.observers.entries))
		copy(entries, cur.observers.entries)
		cur.observers.mu.RUnlock()

		for _, e := range entries {
			if direct || e.subtree {
				e.fn(record)
			}
		}
	}
}
