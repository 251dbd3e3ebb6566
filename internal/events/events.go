// Package events translates (name, payload) pairs into notifications
// dispatched on a host, and defines the payload shapes the list engine
// emits. Payload field names are part of the public contract.
package events

import (
	"context"

	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/logging"
)

// Event names emitted by the list engine and the listinput mixin.
const (
	NameCreate    = "create"
	NameDelete    = "delete"
	NameRemove    = "remove"
	NameModify    = "modify"
	NameUpdate    = "update"
	NameDOMChange = "domchange"
)

// Names lists every event name the runtime emits.
var Names = []string{NameCreate, NameDelete, NameRemove, NameModify, NameUpdate, NameDOMChange}

// DataDetail is the payload of create, delete and remove.
type DataDetail[T any] struct {
	Data []T `json:"data" yaml:"data"`
}

// Modification describes one replaced value.
type Modification[T any] struct {
	Old   T   `json:"old" yaml:"old"`
	New   T   `json:"new" yaml:"new"`
	Index int `json:"index" yaml:"index"`
}

// ModifyDetail is the payload of modify.
type ModifyDetail[T any] struct {
	Index int `json:"index" yaml:"index"`
	Old   T   `json:"old" yaml:"old"`
	New   T   `json:"new" yaml:"new"`
}

// UpdateDetail is the payload of update, emitted after every mutation.
type UpdateDetail[T any] struct {
	Created  []T               `json:"created" yaml:"created"`
	Deleted  []T               `json:"deleted" yaml:"deleted"`
	Modified []Modification[T] `json:"modified" yaml:"modified"`
}

// Dispatcher is the single notification primitive a host exposes.
type Dispatcher interface {
	DispatchEvent(ev *dom.Event) bool
}

// CustomEventFactory is the modern construction path. Hosts without it, or
// whose factory fails, get the legacy path.
type CustomEventFactory interface {
	NewCustomEvent(name string, detail any) (*dom.Event, error)
}

// Emitter dispatches notifications on hosts.
type Emitter struct {
	logger logging.Logger
}

// NewEmitter creates an emitter. A nil logger discards.
func NewEmitter(logger logging.Logger) *Emitter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Emitter{logger: logger.WithComponent("events")}
}

// Emit dispatches exactly one notification named name on host. A nil
// payload produces a notification without detail.
func (e *Emitter) Emit(host Dispatcher, name string, payload any) {
	if host == nil {
		return
	}

	var ev *dom.Event
	if factory, ok := host.(CustomEventFactory); ok {
		built, err := factory.NewCustomEvent(name, payload)
		if err == nil && built != nil {
			ev = built
		} else {
			e.logger.Debug(context.Background(), "custom event construction failed, using legacy path",
				"event", name, "error", err)
		}
	}

	if ev == nil {
		ev = dom.NewEvent()
		if payload != nil {
			ev.InitCustomEvent(name, true, true, payload)
		} else {
			ev.InitEvent(name, true, true)
		}
	}

	host.DispatchEvent(ev)
}

var defaultEmitter = NewEmitter(nil)

// Emit dispatches through a package-level emitter that discards logs.
func Emit(host Dispatcher, name string, payload any) {
	defaultEmitter.Emit(host, name, payload)
}
