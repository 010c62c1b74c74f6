// Package config loads and validates the diplomacy host configuration.
//
// An optional YAML file is read first, then DIPLOMACY_* environment
// variables override whatever they set.
//
//	plugins:
//	  search_paths: [/etc/diplomacy/plugins]
//	  watch_dir: /var/spool/diplomacy
//	  parallel_lifecycle: 4
//	server:
//	  port: "8080"
//	observability:
//	  log_level: debug
//	  log_format: json
//
// Environment variables:
//
//	DIPLOMACY_PLUGIN_PATHS="/opt/plugins,/etc/diplomacy/plugins"
//	DIPLOMACY_WATCH_DIR="/var/spool/diplomacy"
//	DIPLOMACY_IMPLICIT_LOAD="false"
//	DIPLOMACY_PARALLEL_LIFECYCLE="0"
//	DIPLOMACY_DISCOVERY_TIMEOUT="30s"
//	DIPLOMACY_HOST="0.0.0.0"
//	DIPLOMACY_PORT="8080"
//	DIPLOMACY_LOG_LEVEL="info"  # debug, info, warn, error
//	DIPLOMACY_LOG_FORMAT="text" # text, json
//	DIPLOMACY_METRICS_ENABLED="true"
//	DIPLOMACY_OTEL_ENABLED="true"
//	DIPLOMACY_OTEL_ENDPOINT="otel-collector:4317"
package config
