package plugin

import (
	"context"
	"iter"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Plugin is the base interface every registrable component implements.
type Plugin interface {
	ID() string
	Start() result.Result
	Stop() result.Result
}

// Metadata is the discovery-time descriptor used to validate a candidate
// before it is registered. It is not retained after registration.
type Metadata interface {
	ID() string
	ProviderID() string
}

// Descriptor is the manifest-backed Metadata implementation.
type Descriptor struct {
	PluginID       string            `yaml:"id"`             // Unique ID (e.g., "WordCountAmbassador")
	Provider       string            `yaml:"provider"`       // Provider identity (e.g., "ProviderABC")
	Name           string            `yaml:"name"`           // Display name
	Version        string            `yaml:"version"`        // Semver
	Description    string            `yaml:"description"`    // Short description
	Capability     Capability        `yaml:"capability"`     // Capability family
	Implementation string            `yaml:"implementation"` // Registered factory key
	Metadata       map[string]string `yaml:"metadata"`       // Additional metadata
}

// ID implements Metadata.
func (d Descriptor) ID() string {
	return d.PluginID
}

// ProviderID implements Metadata.
func (d Descriptor) ProviderID() string {
	return d.Provider
}

// Capability names a capability family.
type Capability string

const (
	CapabilityPlugin     Capability = "plugin"
	CapabilityAmbassador Capability = "ambassador"
	CapabilityClerk      Capability = "clerk"
)

// Candidate pairs discovered metadata with a deferred factory. The factory
// is only invoked once the metadata has passed validation.
type Candidate[P Plugin, M Metadata] struct {
	Metadata M
	New      func() P
}

// Catalog produces candidates from built-in registrations, search locations
// and preloaded modules. The returned sequence is finite and restartable:
// ranging over it again re-scans. Unresolvable locations are skipped.
type Catalog[P Plugin, M Metadata] interface {
	Discover(ctx context.Context, locations []string, modules []*Module) iter.Seq[Candidate[P, M]]
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc[P Plugin, M Metadata] func(ctx context.Context, locations []string, modules []*Module) iter.Seq[Candidate[P, M]]

// Discover implements Catalog.
func (f CatalogFunc[P, M]) Discover(ctx context.Context, locations []string, modules []*Module) iter.Seq[Candidate[P, M]] {
	return f(ctx, locations, modules)
}
