package registry

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

type fakePlugin struct {
	id        string
	startCode result.Code
	stopCode  result.Code
	starts    atomic.Int32
	stops     atomic.Int32
}

func (f *fakePlugin) ID() string { return f.id }

func (f *fakePlugin) Start() result.Result {
	f.starts.Add(1)
	return result.New(f.startCode)
}

func (f *fakePlugin) Stop() result.Result {
	f.stops.Add(1)
	return result.New(f.stopCode)
}

type meta struct {
	id       string
	provider string
}

func (m meta) ID() string         { return m.id }
func (m meta) ProviderID() string { return m.provider }

type candidate = plugin.Candidate[*fakePlugin, meta]

func cand(id, provider string) candidate {
	p := &fakePlugin{id: id}
	return candidate{Metadata: meta{id: id, provider: provider}, New: func() *fakePlugin { return p }}
}

// staticCatalog yields the same candidates on every scan and records what it
// was asked for.
type staticCatalog struct {
	candidates []candidate
	scans      atomic.Int32

	mu        sync.Mutex
	locations []string
	modules   []*plugin.Module
}

func (s *staticCatalog) Discover(ctx context.Context, locations []string, modules []*plugin.Module) iter.Seq[candidate] {
	s.mu.Lock()
	s.locations, s.modules = locations, modules
	s.mu.Unlock()
	return func(yield func(candidate) bool) {
		s.scans.Add(1)
		for _, c := range s.candidates {
			if !yield(c) {
				return
			}
		}
	}
}

func (s *staticCatalog) lastLocations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locations
}

func newStatic(cands ...candidate) *staticCatalog {
	return &staticCatalog{candidates: cands}
}

type slowCandidate = plugin.Candidate[*slowPlugin, meta]

func slowCatalog(cands []slowCandidate) plugin.CatalogFunc[*slowPlugin, meta] {
	return func(context.Context, []string, []*plugin.Module) iter.Seq[slowCandidate] {
		return func(yield func(slowCandidate) bool) {
			for _, c := range cands {
				if !yield(c) {
					return
				}
			}
		}
	}
}
