package scenario

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"slices"

	"go.uber.org/multierr"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/config"
	"github.com/conneroisu/chassis/internal/di"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/logging"
	"github.com/conneroisu/chassis/internal/registry"
)

// Result is the outcome of one run.
type Result struct {
	Name       string  `json:"name" yaml:"name"`
	Steps      int     `json:"steps" yaml:"steps"`
	Failed     int     `json:"failed" yaml:"failed"`
	Transcript []Entry `json:"transcript" yaml:"transcript"`
}

// Runner executes scenarios. Every run gets a fresh application root, so
// runs never share documents or list state.
type Runner struct {
	config    *config.Config
	logOutput io.Writer
}

// NewRunner creates a runner. Logs of each run go to logOutput.
func NewRunner(cfg *config.Config, logOutput io.Writer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logOutput == nil {
		logOutput = io.Discard
	}
	return &Runner{config: cfg, logOutput: logOutput}
}

// run holds the state of one execution.
type run struct {
	doc      *dom.Document
	store    *binding.Store
	registry *registry.Registry
	logger   logging.Logger
	rec      *recorder
}

// Run executes s. The first failing step ends the run unless
// scenario.keep_going is set, in which case every failure is collected.
// The result is returned even when steps fail.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	container := di.NewServiceContainer(r.config)
	container.SetLogOutput(r.logOutput)
	if err := container.Initialize(); err != nil {
		return nil, err
	}
	defer func() { _ = container.Shutdown(context.WithoutCancel(ctx)) }()

	x := &run{rec: newRecorder()}
	var err error
	if x.doc, err = container.Document(); err != nil {
		return nil, err
	}
	if x.store, err = container.Bindings(); err != nil {
		return nil, err
	}
	if x.registry, err = container.Registry(); err != nil {
		return nil, err
	}
	if x.logger, err = container.Logger(); err != nil {
		return nil, err
	}
	x.logger = x.logger.WithComponent("scenario")

	if err := s.BuildDocument(x.doc); err != nil {
		return nil, errors.NewScenarioError(0, "failed to build document", err)
	}
	x.rec.watchTree(x.doc.Root())

	result := &Result{Name: s.Name, Steps: len(s.Steps)}
	var failures error
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			failures = multierr.Append(failures, err)
			break
		}

		n := i + 1
		x.rec.begin(n, step.Action)
		x.logger.Debug(ctx, "step", "step", n, "action", step.Action, "target", step.Target)

		err := checkExpectedError(step, x.exec(ctx, step))
		if err == nil {
			continue
		}
		result.Failed++
		failures = multierr.Append(failures, errors.NewScenarioError(n, step.Action+" failed", err))
		if !r.config.Scenario.KeepGoing {
			break
		}
	}

	result.Transcript = x.rec.snapshot()
	return result, failures
}

func checkExpectedError(step Step, err error) error {
	if step.ExpectError == "" {
		return err
	}
	if err == nil {
		return fmt.Errorf("expected error %s, got none", step.ExpectError)
	}
	var ce *errors.ChassisError
	if stderrors.As(err, &ce) && ce.Code == step.ExpectError {
		return nil
	}
	return fmt.Errorf("expected error %s, got: %w", step.ExpectError, err)
}

func (x *run) exec(ctx context.Context, step Step) error {
	switch step.Action {
	case ActionApply:
		targets := make([]any, 0, len(step.Targets)+1)
		if step.Target != "" {
			targets = append(targets, step.Target)
		}
		for _, t := range step.Targets {
			targets = append(targets, t)
		}
		_, err := x.registry.Apply(ctx, step.Mixin, targets...)
		return err

	case ActionAdd, ActionAppend:
		list, err := x.list(step.Target)
		if err != nil {
			return err
		}
		if len(step.Values) == 0 {
			return list.Add()
		}
		return list.Add(step.Values)

	case ActionRemove:
		list, err := x.list(step.Target)
		if err != nil {
			return err
		}
		indexes := make([]any, len(step.Indexes))
		for i, index := range step.Indexes {
			indexes[i] = index
		}
		return list.Remove(indexes...)

	case ActionClear:
		list, err := x.list(step.Target)
		if err != nil {
			return err
		}
		list.Clear()
		return nil

	case ActionSet:
		list, err := x.list(step.Target)
		if err != nil {
			return err
		}
		return list.SetItem(step.Index, step.Value)

	case ActionIndex:
		list, err := x.list(step.Target)
		if err != nil {
			return err
		}
		got := list.IndexOf(step.Value)
		x.rec.add(EventResult, step.Target, got)
		if step.Want != nil && *step.Want != got {
			return fmt.Errorf("index of %q: want %d, got %d", step.Value, *step.Want, got)
		}
		return nil

	case ActionType:
		node, err := x.node(step.Target)
		if err != nil {
			return err
		}
		node.SetValue(step.Value)
		return nil

	case ActionSubmit:
		input, err := x.input(step.Target)
		if err != nil {
			return err
		}
		return input.Submit()

	case ActionKey:
		node, err := x.node(step.Target)
		if err != nil {
			return err
		}
		key := step.Key
		if key == "" {
			key = "Enter"
		}
		node.DispatchEvent(dom.NewKeyboardEvent("keyup", key))
		return nil

	case ActionBrowse:
		input, err := x.input(step.Target)
		if err != nil {
			return err
		}
		input.Browse()
		return nil

	case ActionAppendChild:
		parent, err := x.node(step.Target)
		if err != nil {
			return err
		}
		child, err := step.Element.Build(x.doc, parent)
		if err != nil {
			return err
		}
		x.rec.watchTree(child)
		return nil

	case ActionRemoveChild:
		node, err := x.node(step.Target)
		if err != nil {
			return err
		}
		parent := node.Parent()
		if parent == nil {
			return fmt.Errorf("%s has no parent", step.Target)
		}
		return parent.RemoveChild(node)

	case ActionFlush:
		x.flush()
		return nil

	case ActionExpect:
		return x.expect(step)
	}

	return fmt.Errorf("unknown action %q", step.Action)
}

// flush delivers pending child changes of every for target.
func (x *run) flush() {
	type flusher interface{ FlushMutations() }
	for _, host := range x.store.Hosts() {
		if input, ok := binding.ListInput(host); ok {
			if f, ok := input.(flusher); ok {
				f.FlushMutations()
			}
		}
	}
}

func (x *run) expect(step Step) error {
	want := step.Expect
	if want == nil {
		return fmt.Errorf("expect step without expectations")
	}

	var failures error
	if names := x.rec.since(); want.Events != nil && !slices.Equal(names, want.Events) {
		failures = multierr.Append(failures, fmt.Errorf("events: want %v, got %v", want.Events, names))
	}

	if step.Target == "" {
		return failures
	}
	node, err := x.node(step.Target)
	if err != nil {
		return multierr.Append(failures, err)
	}

	if want.Data != nil || want.Empty {
		list, err := x.list(step.Target)
		if err != nil {
			return multierr.Append(failures, err)
		}
		got := list.Data()
		expected := want.Data
		if expected == nil {
			expected = []string{}
		}
		if !slices.Equal(got, expected) {
			failures = multierr.Append(failures, fmt.Errorf("data: want %q, got %q", expected, got))
		}
	}

	if want.Value != nil && node.Value() != *want.Value {
		failures = multierr.Append(failures, fmt.Errorf("value: want %q, got %q", *want.Value, node.Value()))
	}

	if want.State != "" {
		input, err := x.input(step.Target)
		if err != nil {
			return multierr.Append(failures, err)
		}
		got := "idle"
		if input.Pending() {
			got = "pending"
		}
		if got != want.State {
			failures = multierr.Append(failures, fmt.Errorf("state: want %s, got %s", want.State, got))
		}
	}

	if want.Mixins != nil {
		var got []string
		if host, ok := x.store.Lookup(node); ok {
			got = host.Mixins()
		}
		if !slices.Equal(got, want.Mixins) {
			failures = multierr.Append(failures, fmt.Errorf("mixins: want %v, got %v", want.Mixins, got))
		}
	}

	return failures
}

func (x *run) node(selector string) (*dom.Node, error) {
	if selector == "" {
		return nil, fmt.Errorf("step needs a target")
	}
	node, err := x.doc.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return node, nil
}

func (x *run) list(selector string) (binding.ListDataCapable, error) {
	node, err := x.node(selector)
	if err != nil {
		return nil, err
	}
	host, _ := x.store.Lookup(node)
	list, ok := binding.DataList(host)
	if !ok {
		return nil, fmt.Errorf("%s has no list: apply datalist or listinput first", selector)
	}
	return list, nil
}

func (x *run) input(selector string) (binding.ListInputCapable, error) {
	node, err := x.node(selector)
	if err != nil {
		return nil, err
	}
	host, _ := x.store.Lookup(node)
	input, ok := binding.ListInput(host)
	if !ok {
		return nil, fmt.Errorf("%s has no input capability: apply listinput first", selector)
	}
	return input, nil
}
