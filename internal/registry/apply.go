package registry

import (
	"context"

	"github.com/conneroisu/chassis/internal/core"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
)

// ApplyReport summarizes one Apply call.
type ApplyReport struct {
	Mixin   string
	Applied []*dom.Node
	// Skipped collects the targets that were neither a node nor a usable
	// selector.
	Skipped *errors.ErrorCollector
}

// Apply installs the named mixin on every target. A target is a selector
// string, a *dom.Node, or a slice of either. Unusable targets are logged
// and skipped; the first installer error stops the call.
func (r *Registry) Apply(ctx context.Context, name string, targets ...any) (*ApplyReport, error) {
	mixin, ok := r.Get(name)
	if !ok {
		err := errors.NewUnknownMixinError(name)
		r.logger.Error(ctx, err, "unknown mixin", "mixin", name)
		return nil, err
	}

	report := &ApplyReport{Mixin: name, Skipped: errors.NewErrorCollector()}

	for _, target := range core.Splice(targets...) {
		nodes, ok := r.resolve(ctx, name, target, report)
		if !ok {
			continue
		}
		for _, node := range nodes {
			if err := mixin.Install(ctx, node); err != nil {
				return report, err
			}
			report.Applied = append(report.Applied, node)
		}
	}

	r.logger.Debug(ctx, "applied", "mixin", name,
		"applied", len(report.Applied), "skipped", report.Skipped.Len())
	return report, nil
}

func (r *Registry) resolve(ctx context.Context, name string, target any, report *ApplyReport) ([]*dom.Node, bool) {
	switch t := target.(type) {
	case *dom.Node:
		if t != nil {
			return []*dom.Node{t}, true
		}
	case string:
		if r.doc == nil {
			break
		}
		nodes, err := r.doc.QuerySelectorAll(t)
		if err == nil {
			return nodes, true
		}
		skip := errors.NewInvalidTargetError(name, target).WithComponent("registry")
		skip.Cause = err
		r.skip(ctx, report, skip, target)
		return nil, false
	}

	r.skip(ctx, report, errors.NewInvalidTargetError(name, target).WithComponent("registry"), target)
	return nil, false
}

func (r *Registry) skip(ctx context.Context, report *ApplyReport, err *errors.ChassisError, target any) {
	r.logger.Warn(ctx, err, "could not apply mixin to target: not a node or selector",
		"mixin", report.Mixin, "target", target)
	report.Skipped.AddError(err)
}

// Mixin returns a shorthand for Apply bound to name, so that
// r.Mixin("x")(ctx, t) is r.Apply(ctx, "x", t).
func (r *Registry) Mixin(name string) func(ctx context.Context, targets ...any) (*ApplyReport, error) {
	return func(ctx context.Context, targets ...any) (*ApplyReport, error) {
		return r.Apply(ctx, name, targets...)
	}
}
