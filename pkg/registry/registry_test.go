package registry

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

func TestNew_NilCatalog(t *testing.T) {
	reg, err := New[*fakePlugin, meta](nil)

	assert.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, result.InvalidArgument))
	assert.Equal(t, result.InvalidArgument, result.CodeOf(err))
}

func TestNew_Defaults(t *testing.T) {
	cat := newStatic(cand("a", "p"))
	reg, err := New[*fakePlugin, meta](cat)

	require.NoError(t, err)
	assert.Equal(t, "plugins", reg.Name())
	assert.Zero(t, reg.Len())
	assert.Zero(t, cat.scans.Load(), "no discovery without Load")
}

func TestNew_ImplicitLoad(t *testing.T) {
	t.Run("loads when paths given", func(t *testing.T) {
		cat := newStatic(cand("a", "p"))
		reg, err := New[*fakePlugin, meta](cat, WithImplicitLoad(true), WithSearchPaths("/plugins"))

		require.NoError(t, err)
		assert.True(t, reg.Has("a"))
		assert.Equal(t, []string{"/plugins"}, cat.lastLocations())
	})

	t.Run("loads when modules given", func(t *testing.T) {
		cat := newStatic(cand("a", "p"))
		reg, err := New[*fakePlugin, meta](cat, WithImplicitLoad(true), WithModules(plugin.NewModule("m")))

		require.NoError(t, err)
		assert.True(t, reg.Has("a"))
	})

	t.Run("skips when nothing configured", func(t *testing.T) {
		cat := newStatic(cand("a", "p"))
		reg, err := New[*fakePlugin, meta](cat, WithImplicitLoad(true))

		require.NoError(t, err)
		assert.Zero(t, reg.Len())
		assert.Zero(t, cat.scans.Load())
	})

	t.Run("invalid candidates do not fail construction", func(t *testing.T) {
		reg, err := New[*fakePlugin, meta](newStatic(cand("", "p")), WithImplicitLoad(true), WithSearchPaths("x"))

		require.NoError(t, err)
		assert.Zero(t, reg.Len())
	})
}

func TestAddSearchPaths(t *testing.T) {
	reg, err := New[*fakePlugin, meta](newStatic(), WithSearchPaths("a"))
	require.NoError(t, err)

	reg.AddSearchPaths()
	assert.Equal(t, []string{"a"}, reg.SearchPaths())

	reg.AddSearchPaths("b", "a")
	assert.Equal(t, []string{"a", "b", "a"}, reg.SearchPaths())

	paths := reg.SearchPaths()
	paths[0] = "changed"
	assert.Equal(t, "a", reg.SearchPaths()[0])
}

func TestAddSearchPaths_EmptyKeepsLoadResult(t *testing.T) {
	// One candidate per search location.
	cat := plugin.CatalogFunc[*fakePlugin, meta](func(_ context.Context, locations []string, _ []*plugin.Module) iter.Seq[candidate] {
		return func(yield func(candidate) bool) {
			for _, loc := range locations {
				if !yield(cand(loc, "p")) {
					return
				}
			}
		}
	})

	before, err := New[*fakePlugin, meta](cat, WithSearchPaths("a", "b"))
	require.NoError(t, err)
	_, beforeReport := before.LoadWithReport(context.Background())

	after, err := New[*fakePlugin, meta](cat, WithSearchPaths("a", "b"))
	require.NoError(t, err)
	after.AddSearchPaths()
	_, afterReport := after.LoadWithReport(context.Background())

	assert.Equal(t, []string{"a", "b"}, before.IDs())
	assert.Equal(t, before.IDs(), after.IDs())
	assert.Equal(t, beforeReport.Discovered, afterReport.Discovered)
	assert.Equal(t, beforeReport.Registered, afterReport.Registered)
}

func TestAddModules(t *testing.T) {
	reg, err := New[*fakePlugin, meta](newStatic())
	require.NoError(t, err)

	reg.AddModules()
	assert.Empty(t, reg.Modules())

	m := plugin.NewModule("bundle")
	reg.AddModules(m)
	assert.Equal(t, []*plugin.Module{m}, reg.Modules())
}

func TestAddSearchPaths_NoReload(t *testing.T) {
	cat := newStatic(cand("a", "p"))
	reg, err := New[*fakePlugin, meta](cat)
	require.NoError(t, err)

	reg.AddSearchPaths("x")

	assert.Zero(t, cat.scans.Load())
	assert.Zero(t, reg.Len())
}

func TestGetPlugin(t *testing.T) {
	c := cand("a", "p")
	reg, err := New[*fakePlugin, meta](newStatic(c))
	require.NoError(t, err)
	reg.Load(context.Background())

	got, ok := reg.GetPlugin("a")
	require.True(t, ok)
	assert.Same(t, c.New(), got)
	assert.Equal(t, "a", got.ID())

	missing, ok := reg.GetPlugin("missing")
	assert.False(t, ok)
	assert.Nil(t, missing)
}

func TestIDs_Sorted(t *testing.T) {
	reg, err := New[*fakePlugin, meta](newStatic(cand("c", "p"), cand("a", "p"), cand("b", "p")))
	require.NoError(t, err)
	reg.Load(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, reg.IDs())
	assert.Equal(t, 3, reg.Len())
}

func TestWithLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	reg, err := New[*fakePlugin, meta](newStatic(cand("a", "p")), WithLogger(log), WithName("ambassadors"))
	require.NoError(t, err)

	reg.Load(context.Background())

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Registered plugin: a" {
			found = true
			assert.Equal(t, "ambassadors", e.Data["registry"])
			assert.Equal(t, "a", e.Data["plugin_id"])
		}
	}
	assert.True(t, found)
}
