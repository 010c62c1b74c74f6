// Package api serves the plugin host over HTTP.
//
//	GET /plugins                     registered ambassadors and clerks
//	GET /plugins/ambassadors/{id}    one ambassador
//	GET /plugins/clerks/{id}         one clerk
//	GET /healthz                     liveness
//	GET /readyz                      readiness, 503 when nothing is registered
//	GET /metrics                     Prometheus metrics
package api
