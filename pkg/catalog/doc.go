// Package catalog locates plugin candidates.
//
// Candidates come from three places: exports compiled into the binary and
// registered with Register, preloaded modules passed by the caller, and
// YAML manifests found under search locations. A manifest names the
// implementation key of a factory bound with RegisterFactory:
//
//	id: WordCountAmbassador
//	provider: ProviderABC
//	capability: ambassador
//	implementation: wordcount
//
// A search location is either a manifest file or a directory. Directories
// are scanned for top-level *.yaml/*.yml files and <sub>/plugin.yaml.
//
// The catalog never validates metadata; that is the registry's job.
package catalog
