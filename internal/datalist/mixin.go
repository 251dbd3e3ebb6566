package datalist

import (
	"context"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/events"
	"github.com/conneroisu/chassis/internal/logging"
)

// Name is the registry name of the mixin.
const Name = "datalist"

// Installer installs the datalist capability on nodes.
type Installer struct {
	store    *binding.Store
	emitter  *events.Emitter
	defaults Options
	logger   logging.Logger
}

// NewInstaller creates an installer. defaults seed every host before its
// attributes are read.
func NewInstaller(store *binding.Store, emitter *events.Emitter, defaults Options, logger logging.Logger) *Installer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if emitter == nil {
		emitter = events.NewEmitter(logger)
	}
	return &Installer{
		store:    store,
		emitter:  emitter,
		defaults: defaults,
		logger:   logger.WithComponent(Name),
	}
}

// Install adds the capability to node. Installing twice keeps the stored
// values and re-reads the options from the attributes.
func (in *Installer) Install(ctx context.Context, node *dom.Node) error {
	_, err := in.Attach(ctx, node)
	return err
}

// Attach installs the capability if needed and returns it.
func (in *Installer) Attach(ctx context.Context, node *dom.Node) (*Binding, error) {
	if node == nil {
		return nil, errors.NewInvalidTargetError(Name, node)
	}

	opts := OptionsFromAttributes(node, in.defaults)
	host := in.store.Host(node)
	v, created, err := host.Ensure(binding.SlotDataList, func() (any, error) {
		return &Binding{node: node, list: New[string](node, opts, in.emitter)}, nil
	})
	if err != nil {
		return nil, err
	}

	b, ok := v.(*Binding)
	if !ok {
		return nil, errors.NewInternalError("datalist slot holds an unexpected value", nil).
			WithContext("node", node.String())
	}

	if created {
		in.logger.Debug(ctx, "installed", "node", node.String(),
			"separator", opts.Separator, "deduplicate", opts.Deduplicate)
	} else {
		if sep, ok := node.GetAttribute(AttrSeparator); !ok || sep == "" {
			opts.Pattern = b.list.Options().Pattern
		}
		b.list.SetOptions(opts)
		in.logger.Debug(ctx, "refreshed options", "node", node.String())
	}
	return b, nil
}
