package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

type stubPlugin struct{ id string }

func (s *stubPlugin) ID() string           { return s.id }
func (s *stubPlugin) Start() result.Result { return result.OK() }
func (s *stubPlugin) Stop() result.Result  { return result.OK() }

type otherContract interface {
	plugin.Plugin
	Other()
}

type otherPlugin struct{ stubPlugin }

func (o *otherPlugin) Other() {}

func newTestTable() *Table {
	t := NewTable()
	TableRegisterFactory(t, "stub", func() plugin.Plugin { return &stubPlugin{id: "stub"} })
	TableRegisterFactory(t, "other", func() otherContract { return &otherPlugin{} })
	return t
}

func writeManifest(t *testing.T, path string, d plugin.Descriptor) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, SaveManifest(d, path))
}

func collect[P plugin.Plugin](c *Catalog[P], locations []string, modules []*plugin.Module) []Candidate[P] {
	var out []Candidate[P]
	for cand := range c.Discover(context.Background(), locations, modules) {
		out = append(out, cand)
	}
	return out
}

func ids[P plugin.Plugin](cands []Candidate[P]) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Metadata.ID()
	}
	return out
}

func TestDiscover_Empty(t *testing.T) {
	c := New[plugin.Plugin](plugin.CapabilityPlugin, WithTable(NewTable()))

	assert.Empty(t, collect(c, nil, nil))
}

func TestDiscover_BuiltinsFilteredByContract(t *testing.T) {
	table := NewTable()
	table.Register(plugin.NewExport(plugin.Descriptor{PluginID: "a", Provider: "p"},
		func() plugin.Plugin { return &stubPlugin{id: "a"} }))
	table.Register(plugin.NewExport(plugin.Descriptor{PluginID: "b", Provider: "p"},
		func() otherContract { return &otherPlugin{} }))

	got := collect(New[plugin.Plugin]("", WithTable(table)), nil, nil)
	assert.Equal(t, []string{"a"}, ids(got))

	other := collect(New[otherContract]("", WithTable(table)), nil, nil)
	assert.Equal(t, []string{"b"}, ids(other))
}

func TestDiscover_WithoutBuiltins(t *testing.T) {
	table := NewTable()
	table.Register(plugin.NewExport(plugin.Descriptor{PluginID: "a", Provider: "p"},
		func() plugin.Plugin { return &stubPlugin{id: "a"} }))

	got := collect(New[plugin.Plugin]("", WithTable(table), WithoutBuiltins()), nil, nil)
	assert.Empty(t, got)
}

func TestDiscover_Modules(t *testing.T) {
	mod := plugin.NewModule("bundle",
		plugin.NewExport(plugin.Descriptor{PluginID: "m1", Provider: "p"},
			func() plugin.Plugin { return &stubPlugin{id: "m1"} }),
		plugin.NewExport(plugin.Descriptor{PluginID: "m2", Provider: "p"},
			func() otherContract { return &otherPlugin{} }),
	)

	got := collect(New[plugin.Plugin]("", WithTable(NewTable())), nil, []*plugin.Module{nil, mod})

	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].Metadata.ID())
	assert.Equal(t, "m1", got[0].New().ID())
}

func TestDiscover_ManifestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "one", ManifestFileName), plugin.Descriptor{
		PluginID: "one", Provider: "p", Capability: plugin.CapabilityPlugin, Implementation: "stub",
	})
	writeManifest(t, filepath.Join(dir, "two.yml"), plugin.Descriptor{
		PluginID: "two", Provider: "p", Implementation: "stub",
	})
	writeManifest(t, filepath.Join(dir, "nested", "deeper", ManifestFileName), plugin.Descriptor{
		PluginID: "deep", Provider: "p", Implementation: "stub",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# plugins"), 0644))

	got := collect(New[plugin.Plugin](plugin.CapabilityPlugin, WithTable(newTestTable())), []string{dir}, nil)

	assert.ElementsMatch(t, []string{"one", "two"}, ids(got))
}

func TestDiscover_ManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.yaml")
	writeManifest(t, path, plugin.Descriptor{PluginID: "single", Provider: "p", Implementation: "stub"})

	got := collect(New[plugin.Plugin]("", WithTable(newTestTable())), []string{path}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "single", got[0].Metadata.ID())
	assert.Equal(t, "p", got[0].Metadata.ProviderID())
}

func TestDiscover_ImplementationDefaultsToID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.yaml")
	writeManifest(t, path, plugin.Descriptor{PluginID: "stub", Provider: "p"})

	got := collect(New[plugin.Plugin]("", WithTable(newTestTable())), []string{path}, nil)

	assert.Equal(t, []string{"stub"}, ids(got))
}

func TestDiscover_MetadataNotValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.yaml")
	writeManifest(t, path, plugin.Descriptor{Implementation: "stub"})

	got := collect(New[plugin.Plugin]("", WithTable(newTestTable())), []string{path}, nil)

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Metadata.ID())
	assert.Empty(t, got[0].Metadata.ProviderID())
}

func TestDiscover_SkipsUnusableManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "unknown.yaml"), plugin.Descriptor{
		PluginID: "unknown", Provider: "p", Implementation: "nope",
	})
	writeManifest(t, filepath.Join(dir, "clerk.yaml"), plugin.Descriptor{
		PluginID: "clerk", Provider: "p", Capability: plugin.CapabilityClerk, Implementation: "stub",
	})
	writeManifest(t, filepath.Join(dir, "wrongcontract.yaml"), plugin.Descriptor{
		PluginID: "wrong", Provider: "p", Implementation: "other",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [unterminated"), 0644))

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	got := collect(New[plugin.Plugin](plugin.CapabilityAmbassador, WithTable(newTestTable()), WithLogger(log)), []string{dir}, nil)

	assert.Empty(t, got)
	var warned int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned++
		}
	}
	assert.Equal(t, 2, warned)
}

func TestDiscover_MissingLocationsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.yaml")
	writeManifest(t, path, plugin.Descriptor{PluginID: "ok", Provider: "p", Implementation: "stub"})

	locations := []string{
		filepath.Join(dir, "does-not-exist"),
		filepath.Join(dir, "missing.yaml"),
		path,
	}
	got := collect(New[plugin.Plugin]("", WithTable(newTestTable())), locations, nil)

	assert.Equal(t, []string{"ok"}, ids(got))
}

func TestDiscover_Restartable(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "a.yaml"), plugin.Descriptor{PluginID: "a", Provider: "p", Implementation: "stub"})

	c := New[plugin.Plugin]("", WithTable(newTestTable()))
	seq := c.Discover(context.Background(), []string{dir}, nil)

	var first []string
	for cand := range seq {
		first = append(first, cand.Metadata.ID())
	}
	assert.Equal(t, []string{"a"}, first)

	writeManifest(t, filepath.Join(dir, "b.yaml"), plugin.Descriptor{PluginID: "b", Provider: "p", Implementation: "stub"})

	var second []string
	for cand := range seq {
		second = append(second, cand.Metadata.ID())
	}
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestDiscover_StopsEarly(t *testing.T) {
	table := NewTable()
	for _, id := range []string{"a", "b", "c"} {
		table.Register(plugin.NewExport(plugin.Descriptor{PluginID: id, Provider: "p"},
			func() plugin.Plugin { return &stubPlugin{id: id} }))
	}
	c := New[plugin.Plugin]("", WithTable(table))

	var seen []string
	for cand := range c.Discover(context.Background(), nil, nil) {
		seen = append(seen, cand.Metadata.ID())
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestDiscover_CancelledContext(t *testing.T) {
	table := NewTable()
	table.Register(plugin.NewExport(plugin.Descriptor{PluginID: "a", Provider: "p"},
		func() plugin.Plugin { return &stubPlugin{id: "a"} }))
	c := New[plugin.Plugin]("", WithTable(table))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n int
	for range c.Discover(ctx, nil, nil) {
		n++
	}
	assert.Zero(t, n)
}
