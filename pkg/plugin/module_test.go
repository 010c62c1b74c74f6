package plugin

import (
	"context"
	"iter"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

type echo struct{ id string }

func (e *echo) ID() string                            { return e.id }
func (e *echo) Start() result.Result                  { return result.OK() }
func (e *echo) Stop() result.Result                   { return result.OK() }
func (e *echo) SupportedActions() []string            { return []string{"Echo"} }
func (e *echo) Process(data string) result.Result     { return result.OK() }
func (e *echo) SetConsul(ConsulRequest) result.Result { return result.OK() }

func TestExport_Contract(t *testing.T) {
	e := NewExport(Descriptor{PluginID: "echo"}, func() Ambassador { return &echo{id: "echo"} })

	assert.Equal(t, reflect.TypeFor[Ambassador](), e.Contract())
	assert.True(t, Matches[Ambassador](e))
	assert.False(t, Matches[Clerk](e), "an implementation matching several contracts is exported under one")
	assert.False(t, Matches[Plugin](e))
}

func TestFactory(t *testing.T) {
	calls := 0
	e := NewExport(Descriptor{PluginID: "echo"}, func() Clerk {
		calls++
		return &echo{id: "echo"}
	})

	_, ok := Factory[Ambassador](e)
	assert.False(t, ok)

	fn, ok := Factory[Clerk](e)
	require.True(t, ok)
	assert.Zero(t, calls, "factory is deferred")
	assert.Equal(t, "echo", fn().ID())
	assert.Equal(t, 1, calls)

	_, ok = Factory[Clerk](Export{})
	assert.False(t, ok)
}

func TestFactory_NilInstance(t *testing.T) {
	e := NewExport(Descriptor{PluginID: "a"}, func() Ambassador { return nil })

	fn, ok := Factory[Ambassador](e)
	require.True(t, ok)

	var got Ambassador
	assert.NotPanics(t, func() { got = fn() })
	assert.Nil(t, got)
}

func TestNewModule(t *testing.T) {
	m := NewModule("bundle",
		NewExport(Descriptor{PluginID: "a"}, func() Plugin { return &echo{id: "a"} }),
	)

	assert.Equal(t, "bundle", m.Name)
	assert.Len(t, m.Exports, 1)
}

func TestDescriptor_Metadata(t *testing.T) {
	var m Metadata = Descriptor{PluginID: "WordCountAmbassador", Provider: "ProviderABC"}

	assert.Equal(t, "WordCountAmbassador", m.ID())
	assert.Equal(t, "ProviderABC", m.ProviderID())
}

func TestCatalogFunc(t *testing.T) {
	var c Catalog[Plugin, Descriptor] = CatalogFunc[Plugin, Descriptor](
		func(_ context.Context, locations []string, _ []*Module) iter.Seq[Candidate[Plugin, Descriptor]] {
			return func(yield func(Candidate[Plugin, Descriptor]) bool) {
				for _, loc := range locations {
					if !yield(Candidate[Plugin, Descriptor]{Metadata: Descriptor{PluginID: loc}}) {
						return
					}
				}
			}
		})

	var got []string
	for cand := range c.Discover(context.Background(), []string{"a", "b"}, nil) {
		got = append(got, cand.Metadata.ID())
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
