// Package plugin defines the contracts shared by plugin hosts and plugin
// implementations.
//
// # Contracts
//
// Plugin: identity plus Start/Stop, the minimum every registry entry
// satisfies.
//
// Metadata: identity and provider identity, used only to validate a
// candidate before registration. Descriptor is the manifest-backed
// implementation:
//
//	id: WordCountAmbassador
//	provider: ProviderABC
//	capability: ambassador
//	implementation: wordcount
//
// Capability families extend Plugin:
//
//	type Ambassador interface {
//		Plugin
//		SupportedActions() []string
//		Process(data string) result.Result
//	}
//
//	type Clerk interface {
//		Plugin
//		SetConsul(consul ConsulRequest) result.Result
//	}
//
// # Discovery
//
// A Catalog yields Candidate values (metadata plus deferred factory) from
// built-in registrations, search locations and preloaded Modules. Modules
// group Exports; each Export is declared under a contract type with
// NewExport and can only be produced as that type.
//
// # Related Packages
//
//   - pkg/registry: generic registry over these contracts
//   - pkg/catalog: filesystem and built-in catalog
//   - pkg/result: outcome model
package plugin
