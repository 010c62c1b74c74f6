package registry

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

func TestValidate(t *testing.T) {
	reg, err := New[*fakePlugin, meta](newStatic(cand("taken", "p")))
	require.NoError(t, err)
	reg.Load(context.Background())

	tests := []struct {
		name     string
		meta     meta
		expected result.Code
	}{
		{"empty id", meta{id: "", provider: "X"}, result.InvalidPluginID},
		{"empty id and provider", meta{}, result.InvalidPluginID},
		{"empty provider", meta{id: "X", provider: ""}, result.InvalidPluginProvider},
		{"duplicate", meta{id: "taken", provider: "p"}, result.InvalidPluginDuplicateID},
		{"duplicate before provider", meta{id: "taken", provider: ""}, result.InvalidPluginDuplicateID},
		{"valid", meta{id: "new", provider: "p"}, result.Success},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reg.Validate(tt.meta).Code)
		})
	}
}

func TestValidate_TypedNilMetadata(t *testing.T) {
	reg, err := New[*fakePlugin, *plugin.Descriptor](
		plugin.CatalogFunc[*fakePlugin, *plugin.Descriptor](
			func(context.Context, []string, []*plugin.Module) iter.Seq[plugin.Candidate[*fakePlugin, *plugin.Descriptor]] {
				return func(yield func(plugin.Candidate[*fakePlugin, *plugin.Descriptor]) bool) {
					yield(plugin.Candidate[*fakePlugin, *plugin.Descriptor]{New: func() *fakePlugin { return &fakePlugin{} }})
				}
			}))
	require.NoError(t, err)

	var res result.Result
	require.NotPanics(t, func() { res = reg.Validate(nil) })
	assert.Equal(t, result.InvalidPluginID, res.Code)

	_, report := reg.LoadWithReport(context.Background())
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, Rejection{Code: result.InvalidPluginID}, report.Rejected[0])
}

func TestValidate_DoesNotRegister(t *testing.T) {
	reg, err := New[*fakePlugin, meta](newStatic())
	require.NoError(t, err)

	assert.True(t, reg.Validate(meta{id: "a", provider: "p"}).IsSuccess())
	assert.False(t, reg.Has("a"))
}
