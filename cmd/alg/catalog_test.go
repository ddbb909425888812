package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/testutil"
)

func TestNewCatalogCommand(t *testing.T) {
	cmd := newCatalogCommand()

	assert.Equal(t, "catalog", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
	assert.NotNil(t, newCatalogStatsCommand().Flags().Lookup("level"))
	assert.NotNil(t, newCatalogSearchCommand().Flags().Lookup("translation"))
}

func markKnown(t *testing.T, tmpDir string, c, e int) {
	t.Helper()
	repository := learning.NewYAMLStateRepository(filepath.Join(tmpDir, "data", "learning_state.yml"))
	sets := learning.NewSets()
	sets.Known[testutil.EntryID(c, e)] = struct{}{}
	require.NoError(t, repository.Save(context.Background(), sets))
}

func TestCatalogStatsCommand(t *testing.T) {
	tmpDir := useTestConfig(t)
	markKnown(t, tmpDir, 1, 1)

	output, err := execute(newCatalogCommand(), "", "stats", "--level", "b1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t,
		[]string{"CATEGORY", "TOTAL", "A1", "A2", "B1", "B2", "C1", "C2", "OTHER", "KNOWN", "IGNORED", "FAVORITES", "ELIGIBLE"},
		strings.Fields(lines[0]),
	)
	assert.Equal(t,
		[]string{"Категория", "1", "4", "2", "0", "1", "1", "0", "0", "0", "1", "0", "0", "2"},
		strings.Fields(lines[1]),
	)
	assert.Equal(t,
		[]string{"Total", "12", "6", "0", "3", "3", "0", "0", "0", "1", "0", "0", "8"},
		strings.Fields(lines[4]),
	)
}

func TestCatalogSearchCommand(t *testing.T) {
	useTestConfig(t)

	tests := []struct {
		name      string
		args      []string
		want      []string
		wantLines int
	}{
		{
			name:      "by word",
			args:      []string{"search", "WORT-2"},
			want:      []string{"wort-2-1", "wort-2-4", "слово-2-3", "Категория 2"},
			wantLines: 5,
		},
		{
			name:      "by translation",
			args:      []string{"search", "word-3-1", "--translation", "--language", "en"},
			want:      []string{testutil.EntryID(3, 1).String(), "wort-3-1", "A1", "Category 3"},
			wantLines: 2,
		},
		{
			name:      "no match",
			args:      []string{"search", "xyz"},
			want:      []string{`No words start with "xyz"`},
			wantLines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(newCatalogCommand(), "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, output, want)
			}
			assert.Len(t, strings.Split(strings.TrimSpace(output), "\n"), tt.wantLines)
		})
	}
}

func TestCatalogExportCommand(t *testing.T) {
	tmpDir := useTestConfig(t)
	markKnown(t, tmpDir, 1, 1)
	outputPath := filepath.Join(tmpDir, "words.md")

	output, err := execute(newCatalogCommand(), "", "export", "--level", "a1", "--output", outputPath)
	require.NoError(t, err)
	assert.Equal(t, "Wrote 5 words to "+outputPath+"\n", output)

	contents, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "## Категория 1")
	assert.Contains(t, string(contents), "### wort-1-2 (A1)")
	assert.Contains(t, string(contents), "слово-1-2")
	assert.NotContains(t, string(contents), "wort-1-1")
	assert.NotContains(t, string(contents), "wort-1-3")
}

func TestCatalogExportCommand_Stdout(t *testing.T) {
	useTestConfig(t)

	output, err := execute(newCatalogCommand(), "", "export", "--level", "b2")
	require.NoError(t, err)
	assert.Contains(t, output, "# Word list")
	assert.Contains(t, output, "12 words")
}

func TestCatalogVoicesCommand(t *testing.T) {
	useTestConfig(t)

	output, err := execute(newCatalogCommand(), "", "voices")
	require.NoError(t, err)
	assert.Equal(t, "No voices are configured.\n", output)
}
