package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/diplomacy/pkg/observability"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Registry discovers, validates and holds plugins of capability P described
// by metadata M, and drives their lifecycle as a group.
//
// The identity map supports concurrent readers and writers. Validation runs
// before, and outside of, the insert; two concurrent Load calls racing on
// the same identity can both pass validation, in which case the first
// insert wins and the other candidate is dropped without re-validation.
type Registry[P plugin.Plugin, M plugin.Metadata] struct {
	name     string
	catalog  plugin.Catalog[P, M]
	log      *logrus.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
	parallel int

	cfgMu       sync.RWMutex
	searchPaths []string
	modules     []*plugin.Module

	mu      sync.RWMutex
	plugins map[string]P
}

// New creates a registry backed by catalog. The catalog is required.
//
// By default New performs no discovery; call Load. With WithImplicitLoad,
// New loads once when search paths or modules were given and never fails
// because of what discovery finds.
func New[P plugin.Plugin, M plugin.Metadata](catalog plugin.Catalog[P, M], opts ...Option) (*Registry[P, M], error) {
	if catalog == nil {
		return nil, &result.Error{
			Op:   "registry.New",
			Code: result.InvalidArgument,
			Err:  errors.New("catalog is required"),
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.New()
	}

	r := &Registry[P, M]{
		name:        o.name,
		catalog:     catalog,
		log:         o.log,
		metrics:     o.metrics,
		tracer:      o.tracer(),
		parallel:    o.parallel,
		searchPaths: append([]string(nil), o.searchPaths...),
		modules:     append([]*plugin.Module(nil), o.modules...),
		plugins:     make(map[string]P),
	}

	if o.implicitLoad && (len(r.searchPaths) > 0 || len(r.modules) > 0) {
		res := r.Load(context.Background())
		r.log.WithFields(logrus.Fields{
			"registry": r.name,
			"code":     res.Code.Name(),
		}).Debug("Implicit plugin load finished")
	}

	return r, nil
}

// Name returns the label the registry was created with.
func (r *Registry[P, M]) Name() string {
	return r.name
}

// AddSearchPaths appends search locations. Duplicates are kept and no
// reload is triggered.
func (r *Registry[P, M]) AddSearchPaths(paths ...string) {
	if len(paths) == 0 {
		return
	}
	r.cfgMu.Lock()
	defer r.cfgMu.Unlock()
	r.searchPaths = append(r.searchPaths, paths...)
}

// AddModules appends preloaded modules. Duplicates are kept and no reload
// is triggered.
func (r *Registry[P, M]) AddModules(modules ...*plugin.Module) {
	if len(modules) == 0 {
		return
	}
	r.cfgMu.Lock()
	defer r.cfgMu.Unlock()
	r.modules = append(r.modules, modules...)
}

// SearchPaths returns a copy of the configured search locations.
func (r *Registry[P, M]) SearchPaths() []string {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return append([]string(nil), r.searchPaths...)
}

// Modules returns a copy of the configured preloaded modules.
func (r *Registry[P, M]) Modules() []*plugin.Module {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return append([]*plugin.Module(nil), r.modules...)
}

// GetPlugin returns the plugin registered under id. The second return value
// is false, and the plugin the zero value, when nothing is registered.
func (r *Registry[P, M]) GetPlugin(id string) (P, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[id]
	return p, ok
}

// Has reports whether id is registered.
func (r *Registry[P, M]) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[id]
	return ok
}

// Len returns the number of registered plugins.
func (r *Registry[P, M]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// IDs returns the registered identities in sorted order.
func (r *Registry[P, M]) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// tryAdd inserts p under id unless id is already present.
func (r *Registry[P, M]) tryAdd(id string, p P) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; exists {
		return false
	}
	r.plugins[id] = p
	r.metrics.SetRegistered(r.name, len(r.plugins))
	return true
}

type entry[P plugin.Plugin] struct {
	id     string
	plugin P
}

// snapshot copies the current entries, sorted by identity.
func (r *Registry[P, M]) snapshot() []entry[P] {
	r.mu.RLock()
	entries := make([]entry[P], 0, len(r.plugins))
	for id, p := range r.plugins {
		entries = append(entries, entry[P]{id: id, plugin: p})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}
