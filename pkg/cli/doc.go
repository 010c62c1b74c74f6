// Package cli implements the diplomacy command-line interface.
//
// # Commands
//
// plugins list: show what discovery would register
//
//	diplomacy plugins list --path ./plugins --json
//
// validate: run discovery and report every rejected candidate with its
// result code; exits non-zero when anything was rejected
//
//	diplomacy validate --config diplomacy.yaml
//
// run: start the host and serve /plugins, /healthz, /readyz and /metrics
// until SIGINT or SIGTERM
//
//	diplomacy run --config diplomacy.yaml
//
// Every command accepts --config and a repeatable --path; see package
// config for the environment variables.
package cli
