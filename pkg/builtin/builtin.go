// Package builtin holds the plugins compiled into the diplomacy binary.
// Importing it registers them with the process-wide catalog table.
package builtin

import (
	"github.com/platinummonkey/diplomacy/pkg/catalog"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// ProviderID is the provider of every built-in plugin.
const ProviderID = "ProviderABC"

func init() {
	catalog.Register(plugin.NewExport(WordCountDescriptor, func() plugin.Ambassador {
		return NewWordCountAmbassador()
	}))
	catalog.Register(plugin.NewExport(FileClerkDescriptor, func() plugin.Clerk {
		return NewFileClerk()
	}))

	catalog.RegisterFactory(WordCountDescriptor.Implementation, func() plugin.Ambassador {
		return NewWordCountAmbassador()
	})
	catalog.RegisterFactory(FileClerkDescriptor.Implementation, func() plugin.Clerk {
		return NewFileClerk()
	})
}

// Module returns the built-ins as a module with FileClerk configured by
// opts. Use it with a catalog that skips the table's built-in exports.
func Module(opts ...FileClerkOption) *plugin.Module {
	return plugin.NewModule("builtin",
		plugin.NewExport(WordCountDescriptor, func() plugin.Ambassador {
			return NewWordCountAmbassador()
		}),
		plugin.NewExport(FileClerkDescriptor, func() plugin.Clerk {
			return NewFileClerk(opts...)
		}),
	)
}
