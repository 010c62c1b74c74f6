// Package dispatch binds the plugin registry to the ambassador capability.
package dispatch

import (
	"context"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/registry"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Registry is the registry type a Dispatch wraps.
type Registry = registry.Registry[plugin.Ambassador, plugin.Descriptor]

// Dispatch holds the registered ambassadors.
type Dispatch struct {
	reg *Registry
}

// New creates a Dispatch over catalog.
func New(catalog plugin.Catalog[plugin.Ambassador, plugin.Descriptor], opts ...registry.Option) (*Dispatch, error) {
	opts = append([]registry.Option{registry.WithName("ambassadors")}, opts...)
	reg, err := registry.New(catalog, opts...)
	if err != nil {
		return nil, err
	}
	return &Dispatch{reg: reg}, nil
}

// Load discovers ambassadors. See registry.Registry.Load.
func (d *Dispatch) Load(ctx context.Context) result.Result {
	return d.reg.Load(ctx)
}

// GetAmbassador returns the ambassador registered under id.
func (d *Dispatch) GetAmbassador(id string) (plugin.Ambassador, bool) {
	return d.reg.GetPlugin(id)
}

// StartAmbassadors starts every registered ambassador.
func (d *Dispatch) StartAmbassadors(ctx context.Context) result.Result {
	return d.reg.StartAll(ctx)
}

// StopAmbassadors stops every registered ambassador.
func (d *Dispatch) StopAmbassadors(ctx context.Context) result.Result {
	return d.reg.StopAll(ctx)
}

// Registry returns the underlying registry.
func (d *Dispatch) Registry() *Registry {
	return d.reg
}
