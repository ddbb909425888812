package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/alg/internal/randomword"
	"github.com/at-ishikawa/alg/internal/testutil"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

type fakeWordsEngine struct {
	view         randomword.View
	phase        randomword.Phase
	index        int
	advanceOut   randomword.Outcome
	advances     int
	backs        int
	resets       int
	acknowledged int
	forms        []int
	formCount    int
}

func (e *fakeWordsEngine) Advance() randomword.Outcome {
	e.advances++
	e.index++
	return e.advanceOut
}

func (e *fakeWordsEngine) GoBack() bool {
	e.backs++
	if e.index == 0 {
		return false
	}
	e.index--
	return true
}

func (e *fakeWordsEngine) Reset() bool {
	e.resets++
	return true
}

func (e *fakeWordsEngine) AcknowledgeCelebration() bool {
	e.acknowledged++
	e.phase = randomword.PhaseBrowsing
	return true
}

func (e *fakeWordsEngine) PlayForm(index int) bool {
	if index >= e.formCount {
		return false
	}
	e.forms = append(e.forms, index)
	return true
}

func (e *fakeWordsEngine) Current() randomword.View { return e.view }
func (e *fakeWordsEngine) HistoryIndex() int        { return e.index }
func (e *fakeWordsEngine) Phase() randomword.Phase  { return e.phase }

type fakeMarks struct {
	known, ignored, favorites map[uuid.UUID]bool
	err                       error
}

func newFakeMarks() *fakeMarks {
	return &fakeMarks{known: map[uuid.UUID]bool{}, ignored: map[uuid.UUID]bool{}, favorites: map[uuid.UUID]bool{}}
}

func (m *fakeMarks) IsKnown(id uuid.UUID) bool    { return m.known[id] }
func (m *fakeMarks) IsIgnored(id uuid.UUID) bool  { return m.ignored[id] }
func (m *fakeMarks) IsFavorite(id uuid.UUID) bool { return m.favorites[id] }

func (m *fakeMarks) MarkKnown(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.known[id] = true
	return nil
}

func (m *fakeMarks) MarkIgnored(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.ignored[id] = true
	return nil
}

func (m *fakeMarks) ToggleFavorite(_ context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.favorites[id] = !m.favorites[id]
	return m.favorites[id], nil
}

type fakeProgress struct{ learned, goal int }

func (p fakeProgress) LearnedToday() int { return p.learned }
func (p fakeProgress) DailyGoal() int    { return p.goal }

type fakePreferences struct {
	language    string
	autoAdvance bool
}

func (p fakePreferences) Language() string  { return p.language }
func (p fakePreferences) AutoAdvance() bool { return p.autoAdvance }

func TestWordsCLI_Session(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	entry := testutil.Categories()[0].Entries[0]

	tests := []struct {
		name        string
		input       string
		view        randomword.View
		phase       randomword.Phase
		autoAdvance bool
		marksErr    error
		wantErr     error
		wantOutput  []string
		validate    func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks)
	}{
		{
			name:       "next",
			input:      "n\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{entry.Word, "word-1-1", "[--------------------] 0/10"},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, 1, engine.advances)
			},
		},
		{
			name:  "enter is next",
			input: "\n",
			view:  randomword.View{Entry: entry},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, 1, engine.advances)
			},
		},
		{
			name:       "back at the first card",
			input:      "b\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{"This is the first card."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, 1, engine.backs)
			},
		},
		{
			name:        "known advances",
			input:       "k\n",
			view:        randomword.View{Entry: entry},
			autoAdvance: true,
			wantOutput:  []string{"Marked wort-1-1 as known."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.True(t, marks.known[entry.ID])
				assert.Equal(t, 1, engine.advances)
			},
		},
		{
			name:       "ignore without auto advance",
			input:      "i\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{"wort-1-1 will not be shown again."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.True(t, marks.ignored[entry.ID])
				assert.Equal(t, 0, engine.advances)
			},
		},
		{
			name:       "favorite",
			input:      "f\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{"Added wort-1-1 to favorites."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.True(t, marks.favorites[entry.ID])
			},
		},
		{
			name:       "placeholder cannot be marked",
			input:      "k\n",
			view:       randomword.View{Entry: vocabulary.Placeholder()},
			wantOutput: []string{"Вы прошли все слова", "Nothing to mark."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Empty(t, marks.known)
			},
		},
		{
			name:     "mark failure",
			input:    "k\n",
			view:     randomword.View{Entry: entry},
			marksErr: errors.New("disk full"),
			wantErr:  errors.New("disk full"),
		},
		{
			name:  "reset",
			input: "r\n",
			view:  randomword.View{Entry: entry},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, 1, engine.resets)
			},
		},
		{
			name:  "form audio",
			input: "2\n",
			view:  randomword.View{Entry: entry},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, []int{1}, engine.forms)
			},
		},
		{
			name:       "missing form",
			input:      "3\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{"There is no form 3."},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Empty(t, engine.forms)
			},
		},
		{
			name:       "unknown command",
			input:      "x\n",
			view:       randomword.View{Entry: entry},
			wantOutput: []string{`Unknown command "x"`},
		},
		{
			name:    "quit",
			input:   "q\n",
			view:    randomword.View{Entry: entry},
			wantErr: errEnd,
		},
		{
			name:    "closed input",
			input:   "",
			view:    randomword.View{Entry: entry},
			wantErr: errEnd,
		},
		{
			name:       "celebration is acknowledged",
			input:      "\n",
			view:       randomword.View{Entry: entry},
			phase:      randomword.PhaseVideo,
			wantOutput: []string{"Daily goal reached!"},
			validate: func(t *testing.T, engine *fakeWordsEngine, marks *fakeMarks) {
				assert.Equal(t, 1, engine.acknowledged)
				assert.Equal(t, 0, engine.advances)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeWordsEngine{view: tt.view, phase: tt.phase, formCount: 2}
			marks := newFakeMarks()
			marks.err = tt.marksErr
			var buf bytes.Buffer

			language := "en"
			if tt.view.Entry.IsPlaceholder() {
				language = "ru"
			}
			cli := NewWordsCLI(
				engine,
				marks,
				fakeProgress{learned: 0, goal: 10},
				fakePreferences{language: language, autoAdvance: tt.autoAdvance},
				strings.NewReader(tt.input),
				&buf,
			)

			err := cli.Session(context.Background())
			switch {
			case tt.wantErr == errEnd:
				assert.ErrorIs(t, err, errEnd)
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			default:
				require.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
			if tt.validate != nil {
				tt.validate(t, engine, marks)
			}
		})
	}
}

func TestWordsCLI_CelebrationMessage(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	engine := &fakeWordsEngine{
		view:       randomword.View{Entry: testutil.Categories()[0].Entries[0]},
		advanceOut: randomword.OutcomeCelebration,
	}
	var buf bytes.Buffer
	cli := NewWordsCLI(engine, newFakeMarks(), fakeProgress{learned: 10, goal: 10}, fakePreferences{language: "en"}, strings.NewReader("n\n"), &buf)

	require.NoError(t, cli.Session(context.Background()))
	assert.Contains(t, buf.String(), "You learned 10 words today!")
	assert.Contains(t, buf.String(), "[####################] 10/10")
}

func TestFormatCard(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	level := vocabulary.LevelB1
	entry := vocabulary.WordEntry{
		ID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Word:         "laufen",
		Phoneme:      "ˈlaʊ̯fn̩",
		Level:        &level,
		Translations: map[string]string{"en": "to run"},
		Forms:        []vocabulary.WordForm{{Form: "läuft"}, {Form: "lief"}},
		Examples:     []vocabulary.Example{{Text: "Ich laufe."}, {Text: "Er läuft.", Phoneme: "eːɐ̯ lɔɪ̯ft"}},
	}
	exampleIndex := 1
	marks := newFakeMarks()
	marks.favorites[entry.ID] = true

	tests := []struct {
		name     string
		view     randomword.View
		language string
		marks    WordMarks
		want     string
	}{
		{
			name:     "word with forms",
			view:     randomword.View{Entry: entry},
			language: "en",
			want:     "laufen [ˈlaʊ̯fn̩] (B1)\nto run\n  1. läuft, 2. lief",
		},
		{
			name:     "example of a favorite",
			view:     randomword.View{Entry: entry, ExampleIndex: &exampleIndex},
			language: "en",
			marks:    marks,
			want:     "laufen [ˈlaʊ̯fn̩] (B1) ★\nto run\n  Er läuft.\n  [eːɐ̯ lɔɪ̯ft]",
		},
		{
			name:     "missing translation",
			view:     randomword.View{Entry: entry},
			language: "sv",
			want:     "laufen [ˈlaʊ̯fn̩] (B1)\n-\n  1. läuft, 2. lief",
		},
		{
			name:     "placeholder falls back to english",
			view:     randomword.View{Entry: vocabulary.Placeholder()},
			language: "sv",
			want:     "You've completed all words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCard(tt.view, tt.language, tt.marks))
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		learned, goal int
		want          string
	}{
		{learned: 0, goal: 10, want: "[----------] 0/10"},
		{learned: 5, goal: 10, want: "[#####-----] 5/10"},
		{learned: 12, goal: 10, want: "[##########] 12/10"},
		{learned: 3, goal: 0, want: "[##########] 3/0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.learned, tt.goal, 10))
	}
}
