package registry

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

const (
	opStart = "start"
	opStop  = "stop"
)

// StartAll starts every registered plugin. It returns NoPluginsLoaded when
// the registry is empty and Success otherwise, whatever the individual
// plugins reported.
func (r *Registry[P, M]) StartAll(ctx context.Context) result.Result {
	res, _ := r.StartAllWithReport(ctx)
	return res
}

// StopAll stops every registered plugin. It returns NoPluginsLoaded when
// the registry is empty and Success otherwise, whatever the individual
// plugins reported.
func (r *Registry[P, M]) StopAll(ctx context.Context) result.Result {
	res, _ := r.StopAllWithReport(ctx)
	return res
}

// StartAllWithReport behaves like StartAll and also returns each plugin's
// own outcome.
func (r *Registry[P, M]) StartAllWithReport(ctx context.Context) (result.Result, *LifecycleReport) {
	return r.runLifecycle(ctx, opStart, func(p P) result.Result { return p.Start() })
}

// StopAllWithReport behaves like StopAll and also returns each plugin's own
// outcome.
func (r *Registry[P, M]) StopAllWithReport(ctx context.Context) (result.Result, *LifecycleReport) {
	return r.runLifecycle(ctx, opStop, func(p P) result.Result { return p.Stop() })
}

func (r *Registry[P, M]) runLifecycle(ctx context.Context, op string, call func(P) result.Result) (result.Result, *LifecycleReport) {
	_, span := r.tracer.Start(ctx, "registry."+op, trace.WithAttributes(
		attribute.String("registry.name", r.name),
	))
	defer span.End()

	entries := r.snapshot()
	report := &LifecycleReport{
		Operation: op,
		Outcomes:  make([]Outcome, len(entries)),
	}

	if len(entries) == 0 {
		r.log.WithField("registry", r.name).Debugf("No plugins to %s", op)
		r.metrics.RecordLifecycle(r.name, op, result.NoPluginsLoaded)
		return result.New(result.NoPluginsLoaded), report
	}

	invoke := func(i int) {
		e := entries[i]
		res := call(e.plugin)
		report.Outcomes[i] = Outcome{ID: e.id, Result: res}
		r.metrics.RecordPluginLifecycle(r.name, op, res.Code)
		if !res.IsSuccess() {
			r.log.WithFields(logrus.Fields{
				"registry":  r.name,
				"plugin_id": e.id,
				"code":      res.Code.Name(),
			}).Warnf("Plugin %s failed to %s", e.id, op)
		}
	}

	if r.parallel > 1 {
		var g errgroup.Group
		g.SetLimit(r.parallel)
		for i := range entries {
			g.Go(func() error {
				invoke(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range entries {
			invoke(i)
		}
	}

	span.SetAttributes(
		attribute.Int("registry.attempted", len(entries)),
		attribute.Int("registry.failed", len(report.Failed())),
	)
	r.metrics.RecordLifecycle(r.name, op, result.Success)
	return result.OK(), report
}
