package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
)

// ManifestFileName is the manifest looked up in each plugin subdirectory.
const ManifestFileName = "plugin.yaml"

// LoadManifest loads and parses a plugin manifest from a file. The
// descriptor is returned as written; it is not validated.
func LoadManifest(path string) (plugin.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plugin.Descriptor{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var d plugin.Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return plugin.Descriptor{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return d, nil
}

// LoadManifestFromDir loads the plugin.yaml in dir.
func LoadManifestFromDir(dir string) (plugin.Descriptor, error) {
	return LoadManifest(filepath.Join(dir, ManifestFileName))
}

// SaveManifest writes d to path as YAML.
func SaveManifest(d plugin.Descriptor, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

func isManifestFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
