// Package testutil provides shared test helpers for config files, catalog fixtures and a manual scheduler.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// CategoryID returns the id of the c-th fixture category.
func CategoryID(c int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-%04d-000000000000", c))
}

// EntryID returns the id of the e-th entry of the c-th fixture category.
func EntryID(c, e int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-%04d-%012d", c, e))
}

var fixtureLevels = []vocabulary.CEFRLevel{vocabulary.LevelA1, vocabulary.LevelA1, vocabulary.LevelB1, vocabulary.LevelB2}

// Categories returns 3 categories of 4 entries each with levels A1, A1, B1, B2.
// Every entry has English and Russian translations and two examples.
func Categories() []vocabulary.Category {
	var categories []vocabulary.Category
	for c := 1; c <= 3; c++ {
		category := vocabulary.Category{
			ID:           CategoryID(c),
			Translations: map[string]string{"en": fmt.Sprintf("Category %d", c), "ru": fmt.Sprintf("Категория %d", c)},
		}
		for e := 1; e <= len(fixtureLevels); e++ {
			level := fixtureLevels[e-1]
			word := fmt.Sprintf("wort-%d-%d", c, e)
			category.Entries = append(category.Entries, vocabulary.WordEntry{
				ID:           EntryID(c, e),
				Word:         word,
				Version:      -1,
				Level:        &level,
				Translations: map[string]string{"en": fmt.Sprintf("word-%d-%d", c, e), "ru": fmt.Sprintf("слово-%d-%d", c, e)},
				Examples: []vocabulary.Example{
					{Text: word + " eins."},
					{Text: word + " zwei."},
				},
			})
		}
		categories = append(categories, category)
	}
	return categories
}

// NewCatalog builds a catalog from Categories.
func NewCatalog(t *testing.T) *vocabulary.Catalog {
	t.Helper()
	catalog, err := vocabulary.NewCatalog(Categories())
	require.NoError(t, err)
	return catalog
}

// WriteCatalogFile writes categories as a JSON bundle.
func WriteCatalogFile(t *testing.T, path string, categories []vocabulary.Category) {
	t.Helper()
	contents, err := json.Marshal(categories)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, contents, 0644))
}

// SetupTestConfig writes the fixture catalog and a config file that keeps every path inside tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	wordsFile := filepath.Join(tmpDir, "catalog", "word.json")
	WriteCatalogFile(t, wordsFile, Categories())

	configContent := fmt.Sprintf(`catalog:
  words_file: %s
learning:
  backend: yaml
  state_file: %s
database:
  driver: sqlite3
  path: %s
assets:
  base_url: http://127.0.0.1:1
  cache_directory: %s
  retry_attempts: 0
  timeout_seconds: 1
settings:
  file: %s
matching:
  board_size: 5
`,
		wordsFile,
		filepath.Join(tmpDir, "data", "learning_state.yml"),
		filepath.Join(tmpDir, "data", "alg.db"),
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "data", "settings.yml"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
