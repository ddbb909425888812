package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/alg/internal/matching"
	mock_cli "github.com/at-ishikawa/alg/internal/mocks/cli"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/testutil"
)

type orderedRandomizer struct{}

func (orderedRandomizer) Intn(int) int                { return 0 }
func (orderedRandomizer) Shuffle(int, func(i, j int)) {}

func newMatchEngine(t *testing.T, categoryID uuid.UUID, level string) *matching.Engine {
	t.Helper()
	engine := matching.NewEngine(matching.Options{
		Catalog: testutil.NewCatalog(t),
		Criteria: func() selection.Criteria {
			return selection.Criteria{
				CategoryIDs: []uuid.UUID{categoryID},
				Level:       level,
				Language:    "en",
			}
		},
		Randomizer: orderedRandomizer{},
		Scheduler:  &testutil.ManualScheduler{},
	})
	t.Cleanup(engine.Close)
	engine.GeneratePairs(false)
	return engine
}

func TestMatchCLI_Session(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name        string
		input       string
		wantErr     error
		wantOutput  []string
		wantMatches int
		wantLeft    int
	}{
		{
			name:        "correct match",
			input:       "1 1\n",
			wantOutput:  []string{"✅ wort-1-4 = word-1-4"},
			wantMatches: 1,
			wantLeft:    3,
		},
		{
			name:       "wrong match",
			input:      "1 2\n",
			wantOutput: []string{"❌ wort-1-4 is not word-1-3"},
			wantLeft:   4,
		},
		{
			name:       "out of range",
			input:      "5 1\n",
			wantOutput: []string{"left number must be between 1 and 4"},
			wantLeft:   4,
		},
		{
			name:       "not two numbers",
			input:      "1\n",
			wantOutput: []string{"enter two numbers"},
			wantLeft:   4,
		},
		{
			name:     "quit",
			input:    "q\n",
			wantErr:  errEnd,
			wantLeft: 4,
		},
		{
			name:     "closed input",
			input:    "",
			wantErr:  errEnd,
			wantLeft: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newMatchEngine(t, testutil.CategoryID(1), "all")
			var buf bytes.Buffer
			cli := NewMatchCLI(engine, strings.NewReader(tt.input), &buf)

			err := cli.Session(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
			assert.Equal(t, tt.wantMatches, cli.Matches())
			assert.Len(t, engine.LeftColumn(), tt.wantLeft)
		})
	}
}

func TestMatchCLI_ClearsTheBoard(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	// Category 1 has two A1 words
	engine := newMatchEngine(t, testutil.CategoryID(1), "a1")
	var buf bytes.Buffer
	cli := NewMatchCLI(engine, strings.NewReader("1 1\n1 1\n"), &buf)

	require.NoError(t, cli.Session(context.Background()))
	require.NoError(t, cli.Session(context.Background()))
	assert.Contains(t, buf.String(), "Board cleared!")
	assert.Empty(t, engine.LeftColumn())

	// The next round deals a new board without waiting for the delayed regeneration
	buf.Reset()
	assert.ErrorIs(t, cli.Session(context.Background()), errEnd)
	assert.Len(t, engine.LeftColumn(), 2)
	assert.Contains(t, buf.String(), "wort-1-2")
	assert.Equal(t, 2, cli.Matches())
}

func TestMatchCLI_NoWords(t *testing.T) {
	engine := newMatchEngine(t, uuid.New(), "all")
	var buf bytes.Buffer
	cli := NewMatchCLI(engine, strings.NewReader(""), &buf)

	assert.ErrorIs(t, cli.Session(context.Background()), errEnd)
	assert.Contains(t, buf.String(), "No words to match.")
}

func TestFormatBoard(t *testing.T) {
	left := []matching.Pair{{Left: "Haus", Right: "house"}, {Left: "Straße", Right: "street"}}
	right := []matching.Pair{left[1], left[0]}

	want := fmt.Sprintf("%s\n%s\n",
		" 1. Haus       1. street",
		" 2. Straße     2. house",
	)
	assert.Equal(t, want, FormatBoard(left, right))
}

func TestInteractiveCLI_Run(t *testing.T) {
	tests := []struct {
		name    string
		results []error
		wantErr bool
	}{
		{name: "ends the loop", results: []error{nil, nil, errEnd}},
		{name: "returns a failure", results: []error{nil, errors.New("broken")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := mock_cli.NewMockSession(ctrl)
			var calls []any
			for _, result := range tt.results {
				calls = append(calls, session.EXPECT().Session(gomock.Any()).Return(result))
			}
			gomock.InOrder(calls...)

			cli := newInteractiveCLI(strings.NewReader(""), &bytes.Buffer{})
			err := cli.Run(context.Background(), session)
			if tt.wantErr {
				assert.ErrorContains(t, err, "broken")
				return
			}
			assert.NoError(t, err)
		})
	}
}
