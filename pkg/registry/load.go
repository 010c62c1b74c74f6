package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/diplomacy/pkg/observability"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Load discovers candidates through the catalog and registers the valid
// ones. Rejected candidates are logged and counted but never reported to
// the caller: Load always returns Success. Use LoadWithReport to see what
// happened to each candidate.
//
// Load adds no timeout of its own; ctx is handed to the catalog, so callers
// that need bounded discovery should pass a context with a deadline.
func (r *Registry[P, M]) Load(ctx context.Context) result.Result {
	res, _ := r.LoadWithReport(ctx)
	return res
}

// LoadWithReport behaves like Load and additionally returns a report of
// every candidate the catalog produced.
func (r *Registry[P, M]) LoadWithReport(ctx context.Context) (result.Result, *LoadReport) {
	report := &LoadReport{ID: uuid.NewString()}

	ctx, span := r.tracer.Start(ctx, "registry.Load", trace.WithAttributes(
		attribute.String("registry.name", r.name),
		attribute.String("registry.load_id", report.ID),
	))
	defer span.End()

	log := observability.WithTraceContext(ctx, r.log.WithFields(logrus.Fields{
		"registry": r.name,
		"load_id":  report.ID,
	}))

	start := time.Now()
	paths, modules := r.SearchPaths(), r.Modules()
	log.Debugf("Discovering plugins (%d search paths, %d modules)", len(paths), len(modules))

	for candidate := range r.catalog.Discover(ctx, paths, modules) {
		report.Discovered++
		r.metrics.RecordDiscovered(r.name)

		res := r.Validate(candidate.Metadata)
		r.metrics.RecordValidation(r.name, res.Code)
		if !res.IsSuccess() {
			rejection := Rejection{Code: res.Code}
			if !isNil(candidate.Metadata) {
				rejection.ID = candidate.Metadata.ID()
				rejection.ProviderID = candidate.Metadata.ProviderID()
			}
			report.Rejected = append(report.Rejected, rejection)
			log.WithFields(logrus.Fields{
				"plugin_id":   rejection.ID,
				"provider_id": rejection.ProviderID,
				"code":        res.Code.Name(),
			}).Warnf("Rejected plugin candidate: %s", res.Code.Message())
			continue
		}

		id := candidate.Metadata.ID()
		if candidate.New == nil {
			report.Rejected = append(report.Rejected, Rejection{
				ID:         id,
				ProviderID: candidate.Metadata.ProviderID(),
				Code:       result.InvalidArgument,
			})
			log.WithField("plugin_id", id).Warn("Rejected plugin candidate: no factory")
			continue
		}

		instance := candidate.New()
		if isNil(instance) {
			report.Rejected = append(report.Rejected, Rejection{
				ID:         id,
				ProviderID: candidate.Metadata.ProviderID(),
				Code:       result.InvalidArgument,
			})
			log.WithField("plugin_id", id).Warn("Rejected plugin candidate: factory returned nil")
			continue
		}

		if !r.tryAdd(id, instance) {
			// Another Load registered the same identity after validation.
			report.LostRaces = append(report.LostRaces, id)
			log.WithField("plugin_id", id).Debug("Plugin registered concurrently, dropping candidate")
			continue
		}

		report.Registered = append(report.Registered, id)
		log.WithFields(logrus.Fields{
			"plugin_id":   id,
			"provider_id": candidate.Metadata.ProviderID(),
		}).Infof("Registered plugin: %s", id)
	}

	report.Duration = time.Since(start)
	r.metrics.ObserveLoad(r.name, report.Duration)
	span.SetAttributes(
		attribute.Int("registry.discovered", report.Discovered),
		attribute.Int("registry.registered", len(report.Registered)),
		attribute.Int("registry.rejected", len(report.Rejected)),
	)
	log.Infof("Plugin discovery finished: %d discovered, %d registered, %d rejected",
		report.Discovered, len(report.Registered), len(report.Rejected))

	return result.OK(), report
}
