package learning

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type stateFile struct {
	Known     []uuid.UUID `yaml:"known"`
	Ignored   []uuid.UUID `yaml:"ignored"`
	Favorites []uuid.UUID `yaml:"favorites"`
}

// YAMLStateRepository stores the learning state in a single YAML file.
type YAMLStateRepository struct {
	path string
}

// NewYAMLStateRepository creates a new YAMLStateRepository.
func NewYAMLStateRepository(path string) *YAMLStateRepository {
	return &YAMLStateRepository{path: path}
}

// Load reads the file. A missing file is an empty state.
func (r *YAMLStateRepository) Load(_ context.Context) (Sets, error) {
	contents, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSets(), nil
	}
	if err != nil {
		return Sets{}, fmt.Errorf("os.ReadFile(%s) > %w", r.path, err)
	}

	var file stateFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return Sets{}, fmt.Errorf("yaml.Unmarshal(%s) > %w", r.path, err)
	}

	sets := NewSets()
	for _, id := range file.Known {
		sets.Known[id] = struct{}{}
	}
	for _, id := range file.Ignored {
		sets.Ignored[id] = struct{}{}
	}
	for _, id := range file.Favorites {
		sets.Favorites[id] = struct{}{}
	}
	return sets, nil
}

// Save writes the sets to the file, creating its directory if needed.
func (r *YAMLStateRepository) Save(_ context.Context, sets Sets) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}

	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", r.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(stateFile{
		Known:     sets.IDs(MarkKnown),
		Ignored:   sets.IDs(MarkIgnored),
		Favorites: sets.IDs(MarkFavorite),
	}); err != nil {
		return fmt.Errorf("encoder.Encode > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close > %w", err)
	}
	return nil
}
