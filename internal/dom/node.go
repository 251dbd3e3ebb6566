package dom

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// ErrNotChild is returned when removing a node that is not a child of the
// receiver.
var ErrNotChild = errors.New("node is not a child of this node")

// ErrHierarchy is returned when an insertion would create a cycle.
var ErrHierarchy = errors.New("node cannot be inserted here")

type attribute struct {
	name  string
	value string
}

// Node is an element in the in-memory tree.
type Node struct {
	key      string
	tag      string
	document *Document

	mu       sync.RWMutex
	attrs    map[string]attribute
	order    []string
	value    string
	text     string
	parent   *Node
	children []*Node

	events    *EventTarget
	observers *observerList
}

func newNode(doc *Document, tag string) *Node {
	return &Node{
		key:       uuid.NewString(),
		tag:       strings.ToLower(tag),
		document:  doc,
		attrs:     make(map[string]attribute),
		events:    newEventTarget(),
		observers: newObserverList(),
	}
}

// foldName normalizes attribute names; HTML attribute names are
// case-insensitive.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Key returns the node's stable unique key.
func (n *Node) Key() string { return n.key }

// Tag returns the lower-cased tag name.
func (n *Node) Tag() string { return n.tag }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.document }

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// String describes the node for logs, e.g. input#tags.a.b.
func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(n.tag)
	if id := n.ID(); id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	for _, c := range n.Classes() {
		b.WriteString(".")
		b.WriteString(c)
	}
	return b.String()
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	attr, ok := n.attrs[foldName(name)]
	return attr.value, ok
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute and records an attributes mutation.
func (n *Node) SetAttribute(name, value string) {
	folded := foldName(name)

	n.mu.Lock()
	if _, ok := n.attrs[folded]; !ok {
		n.order = append(n.order, folded)
	}
	n.attrs[folded] = attribute{name: name, value: value}
	n.mu.Unlock()

	n.notify(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: folded})
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	folded := foldName(name)

	n.mu.Lock()
	if _, ok := n.attrs[folded]; !ok {
		n.mu.Unlock()
		return
	}
	delete(n.attrs, folded)
	for i, k := range n.order {
		if k == folded {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
	n.mu.Unlock()

	n.notify(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: folded})
}

// Attributes returns name/value pairs in insertion order using the names
// as first written.
func (n *Node) Attributes() [][2]string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([][2]string, 0, len(n.order))
	for _, k := range n.order {
		attr := n.attrs[k]
		out = append(out, [2]string{attr.name, attr.value})
	}
	return out
}

// Classes returns the whitespace-separated entries of the class attribute.
func (n *Node) Classes() []string {
	class, _ := n.GetAttribute("class")
	return strings.Fields(class)
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list if missing.
func (n *Node) AddClass(name string) {
	if n.HasClass(name) {
		return
	}
	n.SetAttribute("class", strings.TrimSpace(strings.Join(append(n.Classes(), name), " ")))
}

// Value returns the raw text value of an input-like node.
func (n *Node) Value() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// SetValue replaces the raw text value. Like the DOM value property, it
// does not produce a mutation record.
func (n *Node) SetValue(value string) {
	n.mu.Lock()
	n.value = value
	n.mu.Unlock()
}

// Text returns the node's character data.
func (n *Node) Text() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.text
}

// SetText replaces the character data and records a characterData mutation.
func (n *Node) SetText(text string) {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()

	n.notify(MutationRecord{Type: MutationCharacterData, Target: n})
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// Children returns a snapshot of the direct children.
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}

// AppendChild moves child to the end of n's children, detaching it from a
// previous parent first.
func (n *Node) AppendChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrHierarchy)
	}
	if child.Contains(n) {
		return fmt.Errorf("%w: %s contains %s", ErrHierarchy, child, n)
	}

	if old := child.Parent(); old != nil {
		if err := old.RemoveChild(child); err != nil {
			return err
		}
	}

	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = n
	child.mu.Unlock()

	n.notify(MutationRecord{Type: MutationChildList, Target: n, AddedNodes: []*Node{child}})
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	n.mu.Lock()
	idx := -1
	for i, c := range n.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return ErrNotChild
	}
	n.children = append(n.children[:idx:idx], n.children[idx+1:]...)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()

	n.notify(MutationRecord{Type: MutationChildList, Target: n, RemovedNodes: []*Node{child}})
	return nil
}

// AddEventListener registers listener for eventType.
func (n *Node) AddEventListener(eventType string, listener ListenerFunc) ListenerID {
	return n.events.add(eventType, listener, false)
}

// AddEventListenerOnce registers a listener removed after its first call.
func (n *Node) AddEventListenerOnce(eventType string, listener ListenerFunc) ListenerID {
	return n.events.add(eventType, listener, true)
}

// RemoveEventListener removes the listener with the given ID.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) bool {
	return n.events.remove(eventType, id)
}

// ListenerCount returns how many listeners are registered for eventType.
func (n *Node) ListenerCount(eventType string) int {
	return n.events.count(eventType)
}

// DispatchEvent delivers ev to n's listeners synchronously. It returns
// false when a cancelable event had its default prevented. Uninitialized
// events are not dispatched.
func (n *Node) DispatchEvent(ev *Event) bool {
	if ev == nil || !ev.initialized {
		return true
	}
	ev.Target = n
	n.events.dispatch(ev)
	return !(ev.Cancelable && ev.DefaultPrevented)
}

// NewCustomEvent is the modern event construction path for this node.
func (n *Node) NewCustomEvent(eventType string, detail any) (*Event, error) {
	return NewCustomEvent(eventType, detail), nil
}

// Click dispatches a click event, the native activation trigger.
func (n *Node) Click() {
	n.DispatchEvent(&Event{Type: "click", Bubbles: true, Cancelable: true, initialized: true})
}
