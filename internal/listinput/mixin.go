package listinput

import (
	"context"
	"time"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/events"
	"github.com/conneroisu/chassis/internal/logging"
	"github.com/conneroisu/chassis/internal/watcher"
)

// Name is the registry name of the mixin.
const Name = "listinput"

// Installer installs the listinput capability on nodes.
type Installer struct {
	store   *binding.Store
	lists   *datalist.Installer
	emitter *events.Emitter
	delay   time.Duration
	logger  logging.Logger
}

// NewInstaller creates an installer that keeps list state through lists
// and batches child changes of for targets over delay.
func NewInstaller(store *binding.Store, lists *datalist.Installer, emitter *events.Emitter, delay time.Duration, logger logging.Logger) *Installer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if emitter == nil {
		emitter = events.NewEmitter(logger)
	}
	return &Installer{
		store:   store,
		lists:   lists,
		emitter: emitter,
		delay:   delay,
		logger:  logger.WithComponent(Name),
	}
}

// Install adds the capability to node.
func (li *Installer) Install(ctx context.Context, node *dom.Node) error {
	_, err := li.Attach(ctx, node)
	return err
}

// Attach installs the capability if needed and returns it. The for
// attribute is resolved before anything is installed.
func (li *Installer) Attach(ctx context.Context, node *dom.Node) (*Input, error) {
	if node == nil {
		return nil, errors.NewInvalidTargetError(Name, node)
	}

	target, err := resolveFor(node)
	if err != nil {
		return nil, err
	}

	data, err := li.lists.Attach(ctx, node)
	if err != nil {
		return nil, err
	}

	v, created, err := li.store.Host(node).Ensure(binding.SlotListInput, func() (any, error) {
		return &Input{Binding: data}, nil
	})
	if err != nil {
		return nil, err
	}
	in, ok := v.(*Input)
	if !ok {
		return nil, errors.NewInternalError("listinput slot holds an unexpected value", nil).
			WithContext("node", node.String())
	}

	li.arm(ctx, in, target)
	if created {
		li.logger.Debug(ctx, "installed", "node", node.String(), "for", targetName(target))
	}
	return in, nil
}

// arm registers the Enter handler and the target watcher unless they are
// already in place.
func (li *Installer) arm(ctx context.Context, in *Input, target *dom.Node) {
	host := in.Node()
	logCtx := context.WithoutCancel(ctx)

	in.mu.Lock()
	if in.enterID == 0 {
		in.enterID = host.AddEventListener("keyup", func(ev *dom.Event) {
			if !isEnter(ev.Code) {
				return
			}
			if err := in.Submit(); err != nil {
				li.logger.Error(logCtx, err, "submit failed", "node", host.String())
			}
		})
	}

	if in.target == target {
		in.mu.Unlock()
		return
	}
	stale := in.watch
	in.watch = nil
	in.target = target
	if target != nil {
		in.watch = watcher.WatchChildren(target, func(_ *dom.Node, record dom.MutationRecord) {
			li.emitter.Emit(host, events.NameDOMChange, record)
		}, watcher.ChildOptions{Delay: li.delay})
	}
	in.mu.Unlock()

	if stale != nil {
		stale.Stop()
	}
	if target != nil {
		li.logger.Debug(ctx, "watching target", "node", host.String(), "target", target.String())
	}
}

func resolveFor(node *dom.Node) (*dom.Node, error) {
	id, ok := node.GetAttribute(datalist.AttrFor)
	if !ok {
		return nil, nil
	}
	doc := node.Document()
	if doc == nil {
		return nil, errors.NewUnresolvedReferenceError(id)
	}
	target := doc.GetElementByID(id)
	if target == nil {
		return nil, errors.NewUnresolvedReferenceError(id)
	}
	return target, nil
}

func isEnter(code string) bool {
	return code == "Enter" || code == "NumpadEnter"
}

func targetName(n *dom.Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
