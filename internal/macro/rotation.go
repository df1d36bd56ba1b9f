package macro

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
)

// File is one rotation YAML file. Imported files contribute their
// rotation ahead of this file's own entries.
type File struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language,omitempty"`
	Imports     []string `yaml:"imports,omitempty"`
	Rotation    []string `yaml:"rotation"`
}

// LoadRotation reads relPath under baseDir, resolving imports.
func LoadRotation(baseDir, relPath string) (*File, error) {
	seen := map[string]bool{}
	return loadRecursive(baseDir, relPath, seen)
}

func loadRecursive(baseDir, relPath string, seen map[string]bool) (*File, error) {
	normalized := filepath.Clean(relPath)
	if seen[normalized] {
		return nil, fmt.Errorf("rotation import cycle detected at %s", normalized)
	}
	seen[normalized] = true

	data, err := os.ReadFile(filepath.Join(baseDir, normalized))
	if err != nil {
		return nil, err
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}

	var merged []string
	for _, imp := range file.Imports {
		child, err := loadRecursive(baseDir, imp, seen)
		if err != nil {
			return nil, err
		}
		merged = append(merged, child.Rotation...)
	}
	file.Rotation = append(merged, file.Rotation...)

	seen[normalized] = false
	return &file, nil
}

// Actions resolves every rotation entry to an action id.
func (f *File) Actions() ([]actions.ID, error) {
	if f == nil {
		return nil, fmt.Errorf("nil rotation file")
	}
	out := make([]actions.ID, 0, len(f.Rotation))
	for idx, name := range f.Rotation {
		id, err := actions.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("rotation entry %d: %w", idx, err)
		}
		out = append(out, id)
	}
	return out, nil
}
