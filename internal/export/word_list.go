package export

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/statistics"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

const wordListTemplateName = "word-list.md.go.tmpl"

//go:embed templates/word-list.md.go.tmpl
var fallbackWordListTemplate string

// WordListTemplate is the top-level data structure for word list templates
type WordListTemplate struct {
	Title      string
	Language   string
	Date       time.Time
	Total      int
	Categories []WordListCategory
}

// WordListCategory holds the listed words of one category
type WordListCategory struct {
	Name  string
	Words []WordListWord
}

// WordListWord is a word entry for template rendering
type WordListWord struct {
	Word        string
	Phoneme     string
	Level       string
	Translation string
	Favorite    bool
	Forms       []string
	Examples    []string
}

// NewWordList lists the words passing criteria, grouped by category in catalog order.
// Categories without listed words are left out. marks may be nil.
func NewWordList(catalog *vocabulary.Catalog, criteria selection.Criteria, marks statistics.Marks, date time.Time) WordListTemplate {
	list := WordListTemplate{
		Title:    "Word list",
		Language: criteria.Language,
		Date:     date,
	}
	for _, category := range selection.ResolveScope(catalog, criteria.CategoryIDs) {
		entries := selection.Filter(category.Entries, criteria, marks)
		if len(entries) == 0 {
			continue
		}

		listed := WordListCategory{Name: category.Name(criteria.Language)}
		for _, entry := range entries {
			favorite := marks != nil && marks.IsFavorite(entry.ID)
			listed.Words = append(listed.Words, newWordListWord(entry, criteria.Language, favorite))
		}
		list.Categories = append(list.Categories, listed)
		list.Total += len(listed.Words)
	}
	return list
}

func newWordListWord(entry vocabulary.WordEntry, language string, favorite bool) WordListWord {
	word := WordListWord{
		Word:        entry.Word,
		Phoneme:     entry.Phoneme,
		Translation: "-",
		Favorite:    favorite,
	}
	if translation, ok := entry.Translation(language); ok {
		word.Translation = translation
	}
	if entry.Level != nil {
		word.Level = entry.Level.String()
	}
	for _, form := range entry.Forms {
		word.Forms = append(word.Forms, form.Form)
	}
	for _, example := range entry.Examples {
		word.Examples = append(word.Examples, example.Text)
	}
	return word
}

// WriteWordList renders data with the template at templatePath, or the embedded one when it is missing or broken.
func WriteWordList(output io.Writer, templatePath string, data WordListTemplate, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := parseTemplateWithFallback(templatePath, wordListTemplateName, fallbackWordListTemplate, logger)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
