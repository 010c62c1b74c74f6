package catalog

import (
	"fmt"
	"sync"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// Table holds compiled-in exports and the factories manifests bind to by
// implementation key. Most programs use the process-wide table through
// Register and RegisterFactory.
type Table struct {
	mu        sync.RWMutex
	exports   []plugin.Export
	factories map[string]plugin.Export
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{factories: make(map[string]plugin.Export)}
}

var defaultTable = NewTable()

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

// Register adds a built-in export to the process-wide table. It is meant to
// be called from init functions.
func Register(e plugin.Export) {
	defaultTable.Register(e)
}

// RegisterFactory binds key to fn in the process-wide table. It panics if
// key is empty or already bound.
func RegisterFactory[P plugin.Plugin](key string, fn func() P) {
	TableRegisterFactory(defaultTable, key, fn)
}

// Register adds a built-in export. Exports are yielded in registration
// order; duplicates are left for the registry to reject.
func (t *Table) Register(e plugin.Export) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exports = append(t.exports, e)
}

// TableRegisterFactory binds key to fn in t. It panics if key is empty, fn
// is nil or key is already bound.
func TableRegisterFactory[P plugin.Plugin](t *Table, key string, fn func() P) {
	if key == "" {
		panic("catalog: RegisterFactory with empty key")
	}
	if fn == nil {
		panic("catalog: RegisterFactory factory is nil for " + key)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.factories[key]; dup {
		panic(fmt.Sprintf("catalog: RegisterFactory called twice for %s", key))
	}
	t.factories[key] = plugin.NewExport[P](plugin.Descriptor{Implementation: key}, fn)
}

// Exports returns a copy of the built-in exports.
func (t *Table) Exports() []plugin.Export {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]plugin.Export(nil), t.exports...)
}

// Keys returns the bound implementation keys.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.factories))
	for k := range t.factories {
		keys = append(keys, k)
	}
	return keys
}

func (t *Table) factory(key string) (plugin.Export, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.factories[key]
	return e, ok
}
