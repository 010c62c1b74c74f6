package catalog

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// Candidate is the candidate type produced by Catalog.
type Candidate[P plugin.Plugin] = plugin.Candidate[P, plugin.Descriptor]

// Catalog discovers candidates of contract P from a table of built-in
// exports, from preloaded modules and from manifests on disk.
type Catalog[P plugin.Plugin] struct {
	capability plugin.Capability
	table      *Table
	builtins   bool
	selector   *Selector
	log        *logrus.Logger
}

// Option configures a Catalog.
type Option func(*config)

type config struct {
	table    *Table
	builtins bool
	selector *Selector
	log      *logrus.Logger
}

// WithTable uses t instead of the process-wide table.
func WithTable(t *Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// WithoutBuiltins stops the catalog from yielding the table's built-in
// exports. Manifest factories are still resolved through the table.
func WithoutBuiltins() Option {
	return func(c *config) {
		c.builtins = false
	}
}

// WithSelector only yields candidates whose descriptor s matches. A nil
// selector matches everything.
func WithSelector(s *Selector) Option {
	return func(c *config) {
		c.selector = s
	}
}

// WithLogger sets the logger for skipped locations and manifests.
func WithLogger(log *logrus.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// New creates a catalog for contract P. Manifests declaring a capability
// other than capability are skipped; manifests that declare none are
// accepted.
func New[P plugin.Plugin](capability plugin.Capability, opts ...Option) *Catalog[P] {
	c := &config{table: defaultTable, builtins: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.New()
	}

	return &Catalog[P]{
		capability: capability,
		table:      c.table,
		builtins:   c.builtins,
		selector:   c.selector,
		log:        c.log,
	}
}

// Discover implements plugin.Catalog. Candidates come from built-in exports,
// then modules, then locations, in the order given. Every iteration of the
// returned sequence scans again. Iteration stops early when ctx is done.
func (c *Catalog[P]) Discover(ctx context.Context, locations []string, modules []*plugin.Module) iter.Seq[Candidate[P]] {
	return func(yield func(Candidate[P]) bool) {
		emit := func(cand Candidate[P]) bool {
			if ctx.Err() != nil {
				c.log.Debugf("Plugin discovery cancelled: %v", ctx.Err())
				return false
			}
			if !c.selected(cand.Metadata) {
				return true
			}
			return yield(cand)
		}

		if c.builtins {
			for _, e := range c.table.Exports() {
				if cand, ok := fromExport[P](e); ok && !emit(cand) {
					return
				}
			}
		}

		for _, m := range modules {
			if m == nil {
				continue
			}
			for _, e := range m.Exports {
				if cand, ok := fromExport[P](e); ok && !emit(cand) {
					return
				}
			}
		}

		for _, loc := range locations {
			for _, path := range c.manifestPaths(loc) {
				cand, ok := c.fromManifest(path)
				if ok && !emit(cand) {
					return
				}
			}
		}
	}
}

// selected applies the selector. Evaluation errors exclude the candidate.
func (c *Catalog[P]) selected(d plugin.Descriptor) bool {
	if c.selector == nil {
		return true
	}
	ok, err := c.selector.Match(d)
	if err != nil {
		c.log.Warnf("Skipping candidate %q: %v", d.PluginID, err)
		return false
	}
	if !ok {
		c.log.Debugf("Skipping candidate %q: not selected by %s", d.PluginID, c.selector)
	}
	return ok
}

func fromExport[P plugin.Plugin](e plugin.Export) (Candidate[P], bool) {
	fn, ok := plugin.Factory[P](e)
	if !ok {
		return Candidate[P]{}, false
	}
	return Candidate[P]{Metadata: e.Descriptor, New: fn}, true
}

// manifestPaths resolves a search location to the manifest files under it.
// Missing and unreadable locations resolve to nothing.
func (c *Catalog[P]) manifestPaths(loc string) []string {
	info, err := os.Stat(loc)
	if err != nil {
		c.log.Debugf("Skipping plugin location %s: %v", loc, err)
		return nil
	}

	if !info.IsDir() {
		if !isManifestFile(loc) {
			c.log.Debugf("Skipping plugin location %s: not a manifest file", loc)
			return nil
		}
		return []string{loc}
	}

	entries, err := os.ReadDir(loc)
	if err != nil {
		c.log.Warnf("Failed to read plugin directory %s: %v", loc, err)
		return nil
	}

	var paths []string
	for _, entry := range entries {
		path := filepath.Join(loc, entry.Name())
		if entry.IsDir() {
			manifest := filepath.Join(path, ManifestFileName)
			if _, err := os.Stat(manifest); err == nil {
				paths = append(paths, manifest)
			}
			continue
		}
		if isManifestFile(entry.Name()) {
			paths = append(paths, path)
		}
	}
	return paths
}

// fromManifest binds the manifest at path to a factory of contract P.
func (c *Catalog[P]) fromManifest(path string) (Candidate[P], bool) {
	d, err := LoadManifest(path)
	if err != nil {
		c.log.Warnf("Failed to load plugin manifest: %v", err)
		return Candidate[P]{}, false
	}

	if d.Capability != "" && c.capability != "" && d.Capability != c.capability {
		c.log.Debugf("Skipping manifest %s: capability %s", path, d.Capability)
		return Candidate[P]{}, false
	}

	key := d.Implementation
	if key == "" {
		key = d.PluginID
	}

	e, ok := c.table.factory(key)
	if !ok {
		c.log.Warnf("Skipping manifest %s: unknown implementation %q", path, key)
		return Candidate[P]{}, false
	}

	fn, ok := plugin.Factory[P](e)
	if !ok {
		c.log.Debugf("Skipping manifest %s: implementation %q is a %s", path, key, e.Contract())
		return Candidate[P]{}, false
	}

	return Candidate[P]{Metadata: d, New: fn}, true
}
