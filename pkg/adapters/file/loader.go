// Package file loads graph definitions from a single YAML or JSON file and keeps a context
// store in a JSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/flowforge/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DefinitionLoader for a graph file.
type Loader struct {
	path string
}

// New creates a loader for path. The format is picked from the extension: ".json" is JSON,
// everything else is YAML.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Supported reports whether path has an extension this package reads.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Load reads and decodes the file. A missing name defaults to the file name.
func (l *Loader) Load(ctx context.Context) (*domain.GraphDefinition, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	def, err := Parse(data, filepath.Ext(l.path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}

	if def.Name == "" {
		base := filepath.Base(l.path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// Parse decodes a graph definition. ext selects the format the same way New does.
func Parse(data []byte, ext string) (*domain.GraphDefinition, error) {
	var def domain.GraphDefinition

	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse graph json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse graph yaml: %w", err)
		}
	}

	return &def, nil
}
