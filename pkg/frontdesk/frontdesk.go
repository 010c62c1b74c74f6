// Package frontdesk binds the plugin registry to the clerk capability.
package frontdesk

import (
	"context"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/registry"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Registry is the registry type a FrontDesk wraps.
type Registry = registry.Registry[plugin.Clerk, plugin.Descriptor]

// FrontDesk holds the registered clerks.
type FrontDesk struct {
	reg *Registry
}

// New creates a FrontDesk over catalog.
func New(catalog plugin.Catalog[plugin.Clerk, plugin.Descriptor], opts ...registry.Option) (*FrontDesk, error) {
	opts = append([]registry.Option{registry.WithName("clerks")}, opts...)
	reg, err := registry.New(catalog, opts...)
	if err != nil {
		return nil, err
	}
	return &FrontDesk{reg: reg}, nil
}

// Load discovers clerks.
func (f *FrontDesk) Load(ctx context.Context) result.Result {
	return f.reg.Load(ctx)
}

// GetClerk returns the clerk registered under id.
func (f *FrontDesk) GetClerk(id string) (plugin.Clerk, bool) {
	return f.reg.GetPlugin(id)
}

// StartClerks starts every registered clerk.
func (f *FrontDesk) StartClerks(ctx context.Context) result.Result {
	return f.reg.StartAll(ctx)
}

// StopClerks stops every registered clerk.
func (f *FrontDesk) StopClerks(ctx context.Context) result.Result {
	return f.reg.StopAll(ctx)
}

// Registry returns the underlying registry.
func (f *FrontDesk) Registry() *Registry {
	return f.reg
}
