package cli

import (
	"bytes"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/diplomacy/pkg/builtin"
	"github.com/platinummonkey/diplomacy/pkg/catalog"
	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := output
	output = &buf
	t.Cleanup(func() { output = old })
	return &buf
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "diplomacy", root.Name)
	assert.NotNil(t, root.Flags)
	for _, name := range []string{"plugins", "validate", "run"} {
		assert.Contains(t, root.Subcommands, name)
	}
	assert.Len(t, root.Subcommands, 3)
	assert.Contains(t, root.Subcommands["plugins"].Subcommands, "list")
}

func TestExecuteArgs_Usage(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, NewRootCommand().ExecuteArgs(nil))
	assert.Contains(t, out.String(), "Usage: diplomacy <command> [args]")
	assert.Contains(t, out.String(), "validate")

	out.Reset()
	require.NoError(t, NewRootCommand().ExecuteArgs([]string{"plugins", "--help"}))
	assert.Contains(t, out.String(), "list")
}

func TestExecuteArgs_UnknownCommand(t *testing.T) {
	err := NewRootCommand().ExecuteArgs([]string{"bogus"})
	assert.EqualError(t, err, "unknown command: bogus")

	err = NewRootCommand().ExecuteArgs([]string{"plugins", "bogus"})
	assert.EqualError(t, err, "unknown command: bogus")
}

func TestPluginsList_Builtins(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, NewRootCommand().ExecuteArgs([]string{"plugins", "list"}))

	assert.Contains(t, out.String(), "CAPABILITY")
	assert.Contains(t, out.String(), builtin.WordCountID)
	assert.Contains(t, out.String(), builtin.FileClerkID)
}

func TestPluginsList_JSONWithManifests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, catalog.SaveManifest(plugin.Descriptor{
		PluginID: "Echo", Provider: "ProviderXYZ", Capability: plugin.CapabilityAmbassador, Implementation: "wordcount",
	}, filepath.Join(dir, "echo.yaml")))
	out := captureOutput(t)

	require.NoError(t, NewRootCommand().ExecuteArgs([]string{"plugins", "list", "--json", "--path", dir}))

	var listed []listedPlugin
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	var ids []string
	for _, p := range listed {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"Echo", builtin.WordCountID, builtin.FileClerkID}, ids)
}

func TestPluginsList_Selector(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, NewRootCommand().ExecuteArgs([]string{
		"plugins", "list", "--json", "--selector", `capability == "clerk"`,
	}))

	var listed []listedPlugin
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, builtin.FileClerkID, listed[0].ID)

	err := NewRootCommand().ExecuteArgs([]string{"plugins", "list", "--selector", "id +"})
	assert.ErrorContains(t, err, "failed to compile selector")
}

func TestValidate(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		out := captureOutput(t)

		require.NoError(t, NewRootCommand().ExecuteArgs([]string{"validate"}))
		assert.Contains(t, out.String(), "All plugin candidates are valid")
	})

	t.Run("rejections", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, catalog.SaveManifest(plugin.Descriptor{
			PluginID: "NoProvider", Capability: plugin.CapabilityAmbassador, Implementation: "wordcount",
		}, filepath.Join(dir, "noprovider.yaml")))
		require.NoError(t, catalog.SaveManifest(builtin.FileClerkDescriptor, filepath.Join(dir, "dup.yaml")))
		out := captureOutput(t)

		err := NewRootCommand().ExecuteArgs([]string{"validate", "--path", dir})

		assert.EqualError(t, err, "2 plugin candidates rejected")
		assert.Contains(t, out.String(), "NoProvider")
		assert.Contains(t, out.String(), "Plugin Provider is not a viable ID. [-412]")
		assert.Contains(t, out.String(), "Plugin ID is already registered. [-411]")
	})
}

func TestValidate_BadConfig(t *testing.T) {
	t.Setenv("DIPLOMACY_LOG_FORMAT", "xml")

	err := NewRootCommand().ExecuteArgs([]string{"validate"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestRun_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	t.Setenv("DIPLOMACY_HOST", "127.0.0.1")
	t.Setenv("DIPLOMACY_PORT", port)
	t.Setenv("DIPLOMACY_LOG_LEVEL", "error")
	t.Setenv("DIPLOMACY_REDISCOVER_SCHEDULE", "@every 1h")

	err = NewRootCommand().ExecuteArgs([]string{"run"})
	assert.ErrorContains(t, err, "failed to listen on 127.0.0.1:"+port)
}

func TestPathList(t *testing.T) {
	var p pathList
	require.NoError(t, p.Set("a"))
	require.NoError(t, p.Set("b"))

	assert.Equal(t, "a,b", p.String())
}
