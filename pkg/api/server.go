package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/diplomacy/pkg/consul"
	"github.com/platinummonkey/diplomacy/pkg/observability"
)

// NewRouter builds the host's HTTP surface: plugin listing, health probes
// and, when metrics is non-nil, the Prometheus endpoint.
func NewRouter(c *consul.Consul, health *observability.HealthChecker, metrics http.Handler, log *logrus.Logger) *mux.Router {
	if log == nil {
		log = logrus.New()
	}

	r := mux.NewRouter()
	r.Use(RecoveryMiddleware(log), LoggingMiddleware(log))

	r.HandleFunc("/healthz", health.Liveness).Methods("GET")
	r.HandleFunc("/readyz", health.Readiness).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	NewPluginHandlers(c).RegisterRoutes(r)
	return r
}

// Instrument wraps h with OpenTelemetry HTTP server spans and metrics.
func Instrument(h http.Handler) http.Handler {
	return otelhttp.NewHandler(h, "diplomacy.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
