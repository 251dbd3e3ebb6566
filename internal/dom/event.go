package dom

// Event is a notification dispatched on a Node.
type Event struct {
	// Type is the event name, e.g. "update" or "keyup".
	Type string

	// Target is the node the event was dispatched on. Set by DispatchEvent.
	Target *Node

	// Bubbles and Cancelable mirror the DOM flags. Dispatch never bubbles;
	// the flags are carried for listeners that inspect them.
	Bubbles    bool
	Cancelable bool

	// Key and Code are set on keyboard events.
	Key  string
	Code string

	// DefaultPrevented is true once PreventDefault was called on a
	// cancelable event.
	DefaultPrevented bool

	detail      any
	hasDetail   bool
	initialized bool

	immediatePropagationStopped bool
}

// NewCustomEvent builds an initialized event carrying detail. A nil detail
// produces an event with no detail.
func NewCustomEvent(eventType string, detail any) *Event {
	ev := &Event{Type: eventType, initialized: true}
	if detail != nil {
		ev.detail = detail
		ev.hasDetail = true
	}
	return ev
}

// NewEvent returns an uninitialized event, the legacy construction path.
// It must be initialized with InitEvent or InitCustomEvent before dispatch.
func NewEvent() *Event {
	return &Event{}
}

// NewKeyboardEvent builds a keyboard event such as keyup for "Enter".
func NewKeyboardEvent(eventType, code string) *Event {
	return &Event{Type: eventType, Key: code, Code: code, initialized: true, Bubbles: true, Cancelable: true}
}

// InitEvent initializes a legacy event without detail.
func (e *Event) InitEvent(eventType string, bubbles, cancelable bool) {
	e.Type = eventType
	e.Bubbles = bubbles
	e.Cancelable = cancelable
	e.initialized = true
}

// InitCustomEvent initializes a legacy event with detail.
func (e *Event) InitCustomEvent(eventType string, bubbles, cancelable bool, detail any) {
	e.InitEvent(eventType, bubbles, cancelable)
	if detail != nil {
		e.detail = detail
		e.hasDetail = true
	}
}

// Detail returns the payload and whether one was attached.
func (e *Event) Detail() (any, bool) {
	return e.detail, e.hasDetail
}

// Initialized reports whether the event may be dispatched.
func (e *Event) Initialized() bool {
	return e.initialized
}

// PreventDefault marks a cancelable event as canceled.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.DefaultPrevented = true
	}
}

// StopImmediatePropagation prevents remaining listeners from running.
func (e *Event) StopImmediatePropagation() {
	e.immediatePropagationStopped = true
}
