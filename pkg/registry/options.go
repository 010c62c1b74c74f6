package registry

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/diplomacy/pkg/observability"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

const tracerName = "github.com/platinummonkey/diplomacy/pkg/registry"

// Option configures a Registry.
type Option func(*options)

type options struct {
	name           string
	searchPaths    []string
	modules        []*plugin.Module
	log            *logrus.Logger
	metrics        *observability.Metrics
	tracerProvider trace.TracerProvider
	implicitLoad   bool
	parallel       int
}

func defaultOptions() *options {
	return &options{
		name: "plugins",
	}
}

// WithName labels the registry in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSearchPaths sets the initial search locations.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) {
		o.searchPaths = append(o.searchPaths, paths...)
	}
}

// WithModules sets the initial preloaded modules.
func WithModules(modules ...*plugin.Module) Option {
	return func(o *options) {
		o.modules = append(o.modules, modules...)
	}
}

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMetrics records discovery and lifecycle metrics into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithImplicitLoad turns on the compatibility mode in which New performs one
// Load when search paths or modules were supplied. The outcome of that load
// is logged and otherwise discarded.
func WithImplicitLoad(enabled bool) Option {
	return func(o *options) {
		o.implicitLoad = enabled
	}
}

// WithParallelLifecycle runs Start and Stop calls concurrently with at most
// limit in flight. Plugins are not required to be thread-safe, so only turn
// this on when every registered implementation tolerates it. A limit of 1
// or less keeps the sequential default.
func WithParallelLifecycle(limit int) Option {
	return func(o *options) {
		o.parallel = limit
	}
}

func (o *options) tracer() trace.Tracer {
	if o.tracerProvider != nil {
		return o.tracerProvider.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}
