package vocabulary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reader loads catalog and voice files from disk.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadCatalog reads a catalog file. JSON bundles and YAML files are supported.
func (r *Reader) ReadCatalog(path string) (*Catalog, error) {
	var categories []Category
	if err := readFile(path, &categories); err != nil {
		return nil, fmt.Errorf("readFile(%s) > %w", path, err)
	}

	catalog, err := NewCatalog(categories)
	if err != nil {
		return nil, fmt.Errorf("NewCatalog(%s) > %w", path, err)
	}
	return catalog, nil
}

// ReadVoices reads a voice list file. A missing path yields no voices.
func (r *Reader) ReadVoices(path string) ([]Voice, error) {
	if path == "" {
		return nil, nil
	}
	var voices []Voice
	if err := readFile(path, &voices); err != nil {
		return nil, fmt.Errorf("readFile(%s) > %w", path, err)
	}
	return voices, nil
}

func readFile(path string, v interface{}) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile > %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(contents, v); err != nil {
			return fmt.Errorf("json.Unmarshal > %w", err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(contents, v); err != nil {
			return fmt.Errorf("yaml.Unmarshal > %w", err)
		}
	default:
		return fmt.Errorf("unsupported file extension %q", ext)
	}
	return nil
}
