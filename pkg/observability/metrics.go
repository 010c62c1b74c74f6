package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Discovery metrics
	CandidatesDiscoveredTotal *prometheus.CounterVec
	ValidationOutcomesTotal   *prometheus.CounterVec
	LoadDuration              *prometheus.HistogramVec
	PluginsRegistered         *prometheus.GaugeVec

	// Lifecycle metrics
	LifecycleCallsTotal       *prometheus.CounterVec
	PluginLifecycleCallsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		CandidatesDiscoveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diplomacy_plugin_candidates_discovered_total",
				Help: "Total number of plugin candidates produced by discovery",
			},
			[]string{"registry"},
		),
		ValidationOutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diplomacy_plugin_validation_outcomes_total",
				Help: "Total number of candidate validations by outcome",
			},
			[]string{"registry", "code"},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diplomacy_plugin_load_duration_seconds",
				Help:    "Plugin discovery duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"registry"},
		),
		PluginsRegistered: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "diplomacy_plugins_registered",
				Help: "Number of registered plugins",
			},
			[]string{"registry"},
		),
		LifecycleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diplomacy_lifecycle_calls_total",
				Help: "Total number of aggregate start/stop calls by outcome",
			},
			[]string{"registry", "operation", "code"},
		),
		PluginLifecycleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diplomacy_plugin_lifecycle_calls_total",
				Help: "Total number of individual plugin start/stop calls by outcome",
			},
			[]string{"registry", "operation", "code"},
		),
	}

	registry.MustRegister(
		m.CandidatesDiscoveredTotal,
		m.ValidationOutcomesTotal,
		m.LoadDuration,
		m.PluginsRegistered,
		m.LifecycleCallsTotal,
		m.PluginLifecycleCallsTotal,
	)

	return m
}

// RecordDiscovered counts one discovered candidate
func (m *Metrics) RecordDiscovered(registry string) {
	if m == nil {
		return
	}
	m.CandidatesDiscoveredTotal.WithLabelValues(registry).Inc()
}

// RecordValidation counts one validation outcome
func (m *Metrics) RecordValidation(registry string, code result.Code) {
	if m == nil {
		return
	}
	m.ValidationOutcomesTotal.WithLabelValues(registry, code.Name()).Inc()
}

// SetRegistered sets the number of registered plugins
func (m *Metrics) SetRegistered(registry string, n int) {
	if m == nil {
		return
	}
	m.PluginsRegistered.WithLabelValues(registry).Set(float64(n))
}

// ObserveLoad records the duration of one discovery pass
func (m *Metrics) ObserveLoad(registry string, d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.WithLabelValues(registry).Observe(d.Seconds())
}

// RecordLifecycle counts one aggregate start/stop call
func (m *Metrics) RecordLifecycle(registry, operation string, code result.Code) {
	if m == nil {
		return
	}
	m.LifecycleCallsTotal.WithLabelValues(registry, operation, code.Name()).Inc()
}

// RecordPluginLifecycle counts one individual plugin start/stop call
func (m *Metrics) RecordPluginLifecycle(registry, operation string, code result.Code) {
	if m == nil {
		return
	}
	m.PluginLifecycleCallsTotal.WithLabelValues(registry, operation, code.Name()).Inc()
}

// MetricsHandler returns the HTTP handler exposing registry
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
