package scenario

import (
	"sync"

	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/events"
)

// EventResult marks transcript entries that hold a query result rather
// than an emitted event.
const EventResult = "result"

// Entry is one line of a transcript.
type Entry struct {
	Step   int    `json:"step" yaml:"step"`
	Action string `json:"action" yaml:"action"`
	Event  string `json:"event" yaml:"event"`
	Target string `json:"target" yaml:"target"`
	Detail any    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// MutationDetail is the transcript form of a domchange payload.
type MutationDetail struct {
	Type    string   `json:"type" yaml:"type"`
	Target  string   `json:"target" yaml:"target"`
	Added   []string `json:"added" yaml:"added"`
	Removed []string `json:"removed" yaml:"removed"`
}

// recorder listens for list events on nodes and appends them to the
// transcript, tagged with the step that caused them.
type recorder struct {
	mu      sync.Mutex
	entries []Entry
	watched map[*dom.Node]bool
	step    int
	action  string
	cursor  int
}

func newRecorder() *recorder {
	return &recorder{watched: make(map[*dom.Node]bool)}
}

// watchTree records events on node and everything below it.
func (r *recorder) watchTree(node *dom.Node) {
	r.watch(node)
	for _, child := range node.Children() {
		r.watchTree(child)
	}
}

func (r *recorder) watch(node *dom.Node) {
	r.mu.Lock()
	if r.watched[node] {
		r.mu.Unlock()
		return
	}
	r.watched[node] = true
	r.mu.Unlock()

	for _, name := range events.Names {
		node.AddEventListener(name, func(ev *dom.Event) {
			detail, _ := ev.Detail()
			r.add(ev.Type, node.String(), describe(detail))
		})
	}
}

func (r *recorder) begin(step int, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step = step
	r.action = action
}

func (r *recorder) add(event, target string, detail any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Step:   r.step,
		Action: r.action,
		Event:  event,
		Target: target,
		Detail: detail,
	})
}

// since returns the event names recorded after the previous call.
func (r *recorder) since() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries)-r.cursor)
	for _, e := range r.entries[r.cursor:] {
		if e.Event != EventResult {
			names = append(names, e.Event)
		}
	}
	r.cursor = len(r.entries)
	return names
}

func (r *recorder) snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// describe converts payloads that hold nodes into printable values.
func describe(detail any) any {
	record, ok := detail.(dom.MutationRecord)
	if !ok {
		return detail
	}
	return MutationDetail{
		Type:    record.Type.String(),
		Target:  nodeName(record.Target),
		Added:   nodeNames(record.AddedNodes),
		Removed: nodeNames(record.RemovedNodes),
	}
}

func nodeName(n *dom.Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func nodeNames(nodes []*dom.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.String())
	}
	return out
}
