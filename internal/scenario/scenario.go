// Package scenario runs scripted sessions against the mixin runtime.
//
// A scenario file describes a document as an element tree and a list of
// steps: applying mixins, calling list operations, typing and pressing
// keys, editing the tree and checking expectations. Running it yields a
// transcript of every event the hosts emitted.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionApply       = "apply"
	ActionAdd         = "add"
	ActionAppend      = "append"
	ActionRemove      = "remove"
	ActionClear       = "clear"
	ActionSet         = "set"
	ActionIndex       = "index"
	ActionType        = "type"
	ActionSubmit      = "submit"
	ActionKey         = "key"
	ActionBrowse      = "browse"
	ActionAppendChild = "append-child"
	ActionRemoveChild = "remove-child"
	ActionFlush       = "flush"
	ActionExpect      = "expect"
)

// Actions lists every supported step action.
var Actions = []string{
	ActionApply, ActionAdd, ActionAppend, ActionRemove, ActionClear, ActionSet,
	ActionIndex, ActionType, ActionSubmit, ActionKey, ActionBrowse,
	ActionAppendChild, ActionRemoveChild, ActionFlush, ActionExpect,
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name     string    `yaml:"name"`
	Document []Element `yaml:"document"`
	Steps    []Step    `yaml:"steps"`
}

// Element describes one node of the initial document.
type Element struct {
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id,omitempty"`
	Classes  []string          `yaml:"classes,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Value    string            `yaml:"value,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Children []Element         `yaml:"children,omitempty"`
}

// Step is one scripted action. Which fields matter depends on Action.
type Step struct {
	Action string `yaml:"action"`
	// Target selects the host the action runs on, or the parent for
	// append-child and the removed node for remove-child.
	Target string `yaml:"target,omitempty"`

	Mixin   string   `yaml:"mixin,omitempty"`
	Targets []string `yaml:"targets,omitempty"`
	Values  []string `yaml:"values,omitempty"`
	Indexes []int    `yaml:"indexes,omitempty"`
	Index   int      `yaml:"index,omitempty"`
	Value   string   `yaml:"value,omitempty"`
	Key     string   `yaml:"key,omitempty"`
	Element *Element `yaml:"element,omitempty"`

	// Want is the expected result of index.
	Want *int `yaml:"want,omitempty"`
	// Expect holds the checks of an expect step.
	Expect *Expectation `yaml:"expect,omitempty"`
	// ExpectError makes the step pass only if it fails with this error
	// code, e.g. ERR_INDEX_OUT_OF_RANGE.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Expectation checks the state of a host. Unset fields are not checked.
type Expectation struct {
	Data   []string `yaml:"data,omitempty"`
	Empty  bool     `yaml:"empty,omitempty"`
	Value  *string  `yaml:"value,omitempty"`
	State  string   `yaml:"state,omitempty"`
	Mixins []string `yaml:"mixins,omitempty"`
	// Events are the event names emitted since the previous expect step,
	// in order.
	Events []string `yaml:"events,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks element tags and step actions.
func (s *Scenario) Validate() error {
	for i := range s.Document {
		if err := s.Document[i].validate(); err != nil {
			return err
		}
	}
	for i, step := range s.Steps {
		if !knownAction(step.Action) {
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
		if step.Action == ActionAppendChild {
			if step.Element == nil {
				return fmt.Errorf("step %d: append-child needs an element", i+1)
			}
			if err := step.Element.validate(); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func (e *Element) validate() error {
	if e.Tag == "" {
		return fmt.Errorf("element without tag")
	}
	for i := range e.Children {
		if err := e.Children[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func knownAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}
