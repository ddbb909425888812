package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     func(dir string) string
		env               map[string]string
		wantErrorContains []string
		want              func(dir string) *Config
	}{
		{
			name: "valid config file with custom values",
			configContent: func(dir string) string {
				return `catalog:
  words_file: ` + filepath.Join(dir, "word.json") + `
learning:
  backend: database
database:
  driver: mysql
  host: db.example.com
  port: 3307
  database: alg
  username: admin
assets:
  base_url: https://audio.example.com
  cache_directory: ` + filepath.Join(dir, "cache") + `
  retry_attempts: 4
  timeout_seconds: 30
  player: mpg123
settings:
  file: ` + filepath.Join(dir, "settings.yml") + `
matching:
  board_size: 6
`
			},
			want: func(dir string) *Config {
				return &Config{
					Catalog: CatalogConfig{WordsFile: filepath.Join(dir, "word.json")},
					Learning: LearningConfig{
						Backend:   "database",
						StateFile: filepath.Join("data", "learning_state.yml"),
					},
					Database: DatabaseConfig{
						Driver:   "mysql",
						Path:     filepath.Join("data", "alg.db"),
						Host:     "db.example.com",
						Port:     3307,
						Database: "alg",
						Username: "admin",
					},
					Assets: AssetsConfig{
						BaseURL:        "https://audio.example.com",
						CacheDirectory: filepath.Join(dir, "cache"),
						RetryAttempts:  4,
						TimeoutSeconds: 30,
						Player:         "mpg123",
					},
					Settings: SettingsConfig{File: filepath.Join(dir, "settings.yml")},
					Matching: MatchingConfig{BoardSize: 6},
				}
			},
		},
		{
			name: "environment variables override the file",
			configContent: func(dir string) string {
				return "catalog:\n  words_file: " + filepath.Join(dir, "word.json") + "\n"
			},
			env: map[string]string{
				"ALG_ASSETS_BASE_URL": "https://mirror.example.com",
				"DB_PASSWORD":         "secret",
			},
			want: func(dir string) *Config {
				return &Config{
					Catalog: CatalogConfig{WordsFile: filepath.Join(dir, "word.json")},
					Learning: LearningConfig{
						Backend:   "yaml",
						StateFile: filepath.Join("data", "learning_state.yml"),
					},
					Database: DatabaseConfig{
						Driver:   "sqlite3",
						Path:     filepath.Join("data", "alg.db"),
						Host:     "localhost",
						Port:     3306,
						Database: "local",
						Username: "user",
						Password: "secret",
					},
					Assets: AssetsConfig{
						BaseURL:        "https://mirror.example.com",
						CacheDirectory: filepath.Join("cache", "assets"),
						RetryAttempts:  2,
						TimeoutSeconds: 15,
					},
					Settings: SettingsConfig{File: filepath.Join("data", "settings.yml")},
					Matching: MatchingConfig{BoardSize: 5},
				}
			},
		},
		{
			name: "invalid YAML format",
			configContent: func(dir string) string {
				return "catalog:\n  words_file: x\n  invalid yaml format here [[[\n"
			},
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "missing words file",
			configContent: func(dir string) string {
				return "catalog:\n  words_file: " + filepath.Join(dir, "missing.json") + "\n"
			},
			wantErrorContains: []string{
				"invalid configuration",
				"catalog.words_file must be an existing and readable file",
			},
		},
		{
			name: "unknown backend and board size",
			configContent: func(dir string) string {
				return `catalog:
  words_file: ` + filepath.Join(dir, "word.json") + `
learning:
  backend: redis
matching:
  board_size: 0
`
			},
			wantErrorContains: []string{
				"backend must be one of [yaml database]",
				"board_size must be 1 or greater",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "word.json"), []byte("[]"), 0644))
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			configPath := filepath.Join(dir, "config.yml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent(dir)), 0644))

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(dir), got)
		})
	}
}

func TestConfigLoader_Load_SearchPath(t *testing.T) {
	dir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(dir))
	t.Setenv("HOME", dir)

	require.NoError(t, os.MkdirAll("catalog", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("catalog", "word.json"), []byte("[]"), 0644))

	loader, err := NewConfigLoader("")
	require.NoError(t, err)
	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("catalog", "word.json"), got.Catalog.WordsFile)
	assert.Equal(t, "yaml", got.Learning.Backend)
	assert.Equal(t, 5, got.Matching.BoardSize)
}
