package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

const (
	KeySelectedCategories     = "selected_categories"
	KeyLanguage               = "preferred_translation_language"
	KeyLevel                  = "selected_language_level"
	KeyIncludeLowerLevels     = "include_lower_levels"
	KeyDailyGoal              = "daily_goal"
	KeyPlaySound              = "play_sound_on_word_change"
	KeyAutoAdvance            = "auto_advance_after_action"
	KeyShowExamples           = "show_examples_after_word"
	KeyExamplesToShow         = "examples_to_show_count"
	KeyWordsLearnedToday      = "words_learned_today"
	KeyLastProgressDate       = "last_progress_date"
	KeyGoalAnimationShownDate = "goal_animation_shown_date"
)

// AllExamples is the examples count meaning every example of a word.
const AllExamples = -1

var defaults = map[string]any{
	KeySelectedCategories:     []string{vocabulary.AllCategoriesID.String()},
	KeyLanguage:               "ru",
	KeyLevel:                  vocabulary.LevelAll,
	KeyIncludeLowerLevels:     true,
	KeyDailyGoal:              10,
	KeyPlaySound:              true,
	KeyAutoAdvance:            true,
	KeyShowExamples:           false,
	KeyExamplesToShow:         3,
	KeyWordsLearnedToday:      0,
	KeyLastProgressDate:       "",
	KeyGoalAnimationShownDate: "",
}

// ErrUnknownKey is returned for a key that is not a setting.
var ErrUnknownKey = errors.New("unknown setting")

// Keys returns every setting key in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values is a snapshot of every setting.
type Values struct {
	SelectedCategories     []string `mapstructure:"selected_categories" validate:"dive,uuid"`
	Language               string   `mapstructure:"preferred_translation_language" validate:"required,alpha"`
	Level                  string   `mapstructure:"selected_language_level" validate:"cefr_level"`
	IncludeLowerLevels     bool     `mapstructure:"include_lower_levels"`
	DailyGoal              int      `mapstructure:"daily_goal" validate:"min=1"`
	PlaySound              bool     `mapstructure:"play_sound_on_word_change"`
	AutoAdvance            bool     `mapstructure:"auto_advance_after_action"`
	ShowExamples           bool     `mapstructure:"show_examples_after_word"`
	ExamplesToShow         int      `mapstructure:"examples_to_show_count" validate:"examples_count"`
	WordsLearnedToday      int      `mapstructure:"words_learned_today" validate:"min=0"`
	LastProgressDate       string   `mapstructure:"last_progress_date" validate:"omitempty,datetime=2006-01-02"`
	GoalAnimationShownDate string   `mapstructure:"goal_animation_shown_date" validate:"omitempty,datetime=2006-01-02"`
}

// Settings is the typed view over a Store.
type Settings struct {
	store      Store
	validator  *validator.Validate
	translator ut.Translator
}

func New(store Store) (*Settings, error) {
	validate, trans, err := config.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("config.NewValidator() > %w", err)
	}
	return &Settings{
		store:      store,
		validator:  validate,
		translator: trans,
	}, nil
}

// Subscribe registers an observer on the underlying store.
func (s *Settings) Subscribe(observer Observer) func() {
	return s.store.Subscribe(observer)
}

func (s *Settings) get(key string, override map[string]any) any {
	if value, ok := override[key]; ok {
		return value
	}
	if value := s.store.Get(key); value != nil {
		return value
	}
	return defaults[key]
}

func (s *Settings) values(override map[string]any) Values {
	return Values{
		SelectedCategories:     cast.ToStringSlice(s.get(KeySelectedCategories, override)),
		Language:               cast.ToString(s.get(KeyLanguage, override)),
		Level:                  strings.ToLower(cast.ToString(s.get(KeyLevel, override))),
		IncludeLowerLevels:     cast.ToBool(s.get(KeyIncludeLowerLevels, override)),
		DailyGoal:              cast.ToInt(s.get(KeyDailyGoal, override)),
		PlaySound:              cast.ToBool(s.get(KeyPlaySound, override)),
		AutoAdvance:            cast.ToBool(s.get(KeyAutoAdvance, override)),
		ShowExamples:           cast.ToBool(s.get(KeyShowExamples, override)),
		ExamplesToShow:         cast.ToInt(s.get(KeyExamplesToShow, override)),
		WordsLearnedToday:      cast.ToInt(s.get(KeyWordsLearnedToday, override)),
		LastProgressDate:       cast.ToString(s.get(KeyLastProgressDate, override)),
		GoalAnimationShownDate: cast.ToString(s.get(KeyGoalAnimationShownDate, override)),
	}
}

// Values returns the current settings.
func (s *Settings) Values() Values {
	return s.values(nil)
}

// Validate checks the current settings.
func (s *Settings) Validate() error {
	return s.validate(s.Values())
}

func (s *Settings) validate(values Values) error {
	if err := s.validator.Struct(values); err != nil {
		return fmt.Errorf("invalid settings: %s", config.TranslateErrors(err, s.translator))
	}
	return nil
}

// set validates the settings with value applied before writing it.
func (s *Settings) set(key string, value any) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := s.validate(s.values(map[string]any{key: value})); err != nil {
		return err
	}
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}

// SetString parses a textual value for key and writes it.
// Lists are comma separated.
func (s *Settings) SetString(key, raw string) error {
	raw = strings.TrimSpace(raw)
	var value any
	var err error
	switch defaults[key].(type) {
	case bool:
		value, err = cast.ToBoolE(raw)
	case int:
		value, err = cast.ToIntE(raw)
	case []string:
		items := []string{}
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		value = items
	case string:
		value = raw
		if key == KeyLevel {
			value = strings.ToLower(raw)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
	}
	return s.set(key, value)
}

// String returns the textual value of key.
func (s *Settings) String(key string) (string, error) {
	if _, ok := defaults[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	value := s.get(key, nil)
	if _, ok := defaults[key].([]string); ok {
		return strings.Join(cast.ToStringSlice(value), ","), nil
	}
	return cast.ToString(value), nil
}

// SelectedCategoryIDs returns the chosen categories. Malformed ids are skipped.
// An empty selection means every category.
func (s *Settings) SelectedCategoryIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, raw := range s.Values().SelectedCategories {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []uuid.UUID{vocabulary.AllCategoriesID}
	}
	return ids
}

func (s *Settings) SetSelectedCategoryIDs(ids []uuid.UUID) error {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return s.set(KeySelectedCategories, values)
}

func (s *Settings) Language() string            { return s.Values().Language }
func (s *Settings) Level() string               { return s.Values().Level }
func (s *Settings) IncludeLowerLevels() bool    { return s.Values().IncludeLowerLevels }
func (s *Settings) PlaySound() bool             { return s.Values().PlaySound }
func (s *Settings) AutoAdvance() bool           { return s.Values().AutoAdvance }
func (s *Settings) ShowExamplesAfterWord() bool { return s.Values().ShowExamples }

// ExamplesToShow returns the examples cap, AllExamples or 1..10.
func (s *Settings) ExamplesToShow() int {
	n := s.Values().ExamplesToShow
	if n == AllExamples {
		return n
	}
	return max(1, min(n, 10))
}

// Criteria builds the selection criteria from the current settings.
func (s *Settings) Criteria(requireTranslation bool) selection.Criteria {
	values := s.Values()
	return selection.Criteria{
		CategoryIDs:        s.SelectedCategoryIDs(),
		Level:              values.Level,
		IncludeLowerLevels: values.IncludeLowerLevels,
		Language:           values.Language,
		RequireTranslation: requireTranslation,
	}
}

func (s *Settings) DailyGoal() int { return s.Values().DailyGoal }
func (s *Settings) Progress() int  { return s.Values().WordsLearnedToday }

func (s *Settings) SetProgress(n int) error {
	return s.set(KeyWordsLearnedToday, n)
}

func (s *Settings) LastDate() string { return s.Values().LastProgressDate }

func (s *Settings) SetLastDate(date string) error {
	return s.set(KeyLastProgressDate, date)
}

func (s *Settings) AnimationShownDate() string { return s.Values().GoalAnimationShownDate }

func (s *Settings) SetAnimationShownDate(date string) error {
	return s.set(KeyGoalAnimationShownDate, date)
}
