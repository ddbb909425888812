// Package vocabulary provides the word catalog domain model and its loaders.
package vocabulary

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CEFRLevel is a proficiency level on the A1..C2 scale.
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "a1"
	LevelA2 CEFRLevel = "a2"
	LevelB1 CEFRLevel = "b1"
	LevelB2 CEFRLevel = "b2"
	LevelC1 CEFRLevel = "c1"
	LevelC2 CEFRLevel = "c2"

	// LevelAll is the level filter value that disables level filtering.
	LevelAll = "all"
)

var allCEFRLevels = []CEFRLevel{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// AllCEFRLevels returns every level in ascending order.
func AllCEFRLevels() []CEFRLevel {
	levels := make([]CEFRLevel, len(allCEFRLevels))
	copy(levels, allCEFRLevels)
	return levels
}

// ParseCEFRLevel parses a case-insensitive level such as "B1".
func ParseCEFRLevel(s string) (CEFRLevel, error) {
	level := CEFRLevel(strings.ToLower(strings.TrimSpace(s)))
	if level.Rank() < 0 {
		return "", fmt.Errorf("unknown CEFR level: %q", s)
	}
	return level, nil
}

// Rank returns the position of the level in the A1<...<C2 ordering, or -1.
func (l CEFRLevel) Rank() int {
	for i, level := range allCEFRLevels {
		if level == l {
			return i
		}
	}
	return -1
}

func (l CEFRLevel) String() string {
	return strings.ToUpper(string(l))
}

// Example is an example sentence of a word.
type Example struct {
	Text    string `json:"text" yaml:"text"`
	Phoneme string `json:"phoneme,omitempty" yaml:"phoneme,omitempty"`
}

// WordForm is an inflected form of a word.
type WordForm struct {
	Form    string `json:"form" yaml:"form"`
	Phoneme string `json:"phoneme,omitempty" yaml:"phoneme,omitempty"`
}

// WordEntry is a single word of the catalog. It is never modified after loading.
type WordEntry struct {
	ID           uuid.UUID         `json:"id" yaml:"id"`
	Word         string            `json:"word" yaml:"word"`
	Version      int               `json:"version" yaml:"version"`
	VoiceEntries []uuid.UUID       `json:"voiceEntries,omitempty" yaml:"voice_entries,omitempty"`
	Forms        []WordForm        `json:"forms,omitempty" yaml:"forms,omitempty"`
	Translations map[string]string `json:"translations" yaml:"translations"`
	Level        *CEFRLevel        `json:"level,omitempty" yaml:"level,omitempty"`
	Examples     []Example         `json:"examples" yaml:"examples"`
	Phoneme      string            `json:"phoneme,omitempty" yaml:"phoneme,omitempty"`
}

// Translation returns the non-empty translation for the language.
func (e WordEntry) Translation(language string) (string, bool) {
	translation, ok := e.Translations[language]
	if !ok || translation == "" {
		return "", false
	}
	return translation, true
}

// VoiceID returns the first voice sample of the entry.
func (e WordEntry) VoiceID() (uuid.UUID, bool) {
	if len(e.VoiceEntries) == 0 {
		return uuid.Nil, false
	}
	return e.VoiceEntries[0], true
}

// IsPlaceholder reports whether the entry is the "all words completed" entry.
func (e WordEntry) IsPlaceholder() bool {
	return e.ID == PlaceholderID
}

// Category is a named group of words.
type Category struct {
	ID           uuid.UUID         `json:"id" yaml:"id"`
	Translations map[string]string `json:"translations" yaml:"translations"`
	Entries      []WordEntry       `json:"entries" yaml:"entries"`
}

// Name returns the display name in the language, falling back to English.
func (c Category) Name(language string) string {
	if name, ok := c.Translations[language]; ok && name != "" {
		return name
	}
	if name, ok := c.Translations["en"]; ok && name != "" {
		return name
	}
	return c.ID.String()
}

// Voice is a voice used to record word audio.
type Voice struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	VoiceName string    `json:"voiceName" yaml:"voice_name"`
	Provider  string    `json:"provider" yaml:"provider"`
	SampleURL string    `json:"sampleUrl" yaml:"sample_url"`
}

var (
	// AllCategoriesID means "no category restriction" in a category selection.
	AllCategoriesID = uuid.MustParse("00000000-0000-0000-0000-00000000a11c")
	// PlaceholderID identifies the entry returned when no word is eligible.
	PlaceholderID = uuid.MustParse("00000000-0000-0000-0000-0000000d0e1e")
)

const placeholderWord = "all_words_completed_title"

// Placeholder returns the entry shown when every eligible word is done.
func Placeholder() WordEntry {
	return WordEntry{
		ID:      PlaceholderID,
		Word:    placeholderWord,
		Version: -1,
		Translations: map[string]string{
			"en": "You've completed all words",
			"ru": "Вы прошли все слова",
		},
		Examples: []Example{},
	}
}
