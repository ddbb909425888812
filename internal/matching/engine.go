// Package matching implements the word to translation matching game.
package matching

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/schedule"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

const (
	// DefaultBoardSize is the number of pairs on a fresh board.
	DefaultBoardSize = 5
	// RegenerateDelay is the pause between clearing the board and dealing a new one.
	RegenerateDelay = time.Second
	// MissingTranslation is displayed for a word without a translation in the language.
	MissingTranslation = "-"
)

// Pair is a word and its translation. Matched pairs stay on the board but are hidden from the columns.
type Pair struct {
	ID      uuid.UUID
	Left    string
	Right   string
	Matched bool
}

// SelectResult reports what a Select call did.
type SelectResult struct {
	// Evaluated is set when both sides were selected and compared.
	Evaluated bool
	Matched   bool
	// BoardCleared is set when the last pair was matched and a new board is scheduled.
	BoardCleared bool
}

type CriteriaSource func() selection.Criteria

type Options struct {
	Catalog    *vocabulary.Catalog
	Membership selection.Membership
	Criteria   CriteriaSource
	BoardSize  int
	Randomizer selection.Randomizer
	Scheduler  schedule.Scheduler
	Logger     *slog.Logger
	// OnRegenerate is called after a delayed board regeneration, outside the engine lock.
	OnRegenerate func()
}

// Engine is safe for concurrent use.
type Engine struct {
	catalog      *vocabulary.Catalog
	membership   selection.Membership
	criteria     CriteriaSource
	boardSize    int
	rnd          selection.Randomizer
	scheduler    schedule.Scheduler
	logger       *slog.Logger
	onRegenerate func()

	mu            sync.Mutex
	pairs         []Pair
	shuffledRight []Pair
	// reserve is consumed from the end.
	reserve       []vocabulary.WordEntry
	selectedLeft  *Pair
	selectedRight *Pair
	timer         schedule.Timer
	token         uint64
	closed        bool
}

// NewEngine creates an engine with an empty board. Call GeneratePairs to deal the first one.
func NewEngine(options Options) *Engine {
	if options.BoardSize <= 0 {
		options.BoardSize = DefaultBoardSize
	}
	if options.Randomizer == nil {
		options.Randomizer = selection.NewRandomizer(0)
	}
	if options.Scheduler == nil {
		options.Scheduler = schedule.Real{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Criteria == nil {
		options.Criteria = func() selection.Criteria {
			return selection.Criteria{
				CategoryIDs: []uuid.UUID{vocabulary.AllCategoriesID},
				Level:       vocabulary.LevelAll,
			}
		}
	}
	return &Engine{
		catalog:      options.Catalog,
		membership:   options.Membership,
		criteria:     options.Criteria,
		boardSize:    options.BoardSize,
		rnd:          options.Randomizer,
		scheduler:    options.Scheduler,
		logger:       options.Logger,
		onRegenerate: options.OnRegenerate,
	}
}

// GeneratePairs deals the board from the eligible words.
// With preserveIDs the words on the board are kept with refreshed text, words that are no longer
// eligible are dropped and the board is topped up from the reserve.
// Otherwise a new board is dealt from a reshuffled reserve.
func (e *Engine) GeneratePairs(preserveIDs bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelRegeneration()
	e.generate(preserveIDs)
}

func (e *Engine) generate(preserveIDs bool) {
	criteria := e.criteria()
	criteria.RequireTranslation = true
	eligible := selection.Eligible(e.catalog, criteria, e.membership)
	language := criteria.Language

	e.selectedLeft = nil
	e.selectedRight = nil

	if !preserveIDs {
		e.reserve = selection.Shuffle(e.rnd, eligible)
		e.pairs = nil
		for len(e.pairs) < e.boardSize {
			entry, ok := e.pop()
			if !ok {
				break
			}
			e.pairs = append(e.pairs, newPair(entry, language))
		}
		e.shuffledRight = e.shuffle(e.pairs)
		e.logger.Debug("dealt a new board", "pairs", len(e.pairs), "reserve", len(e.reserve))
		return
	}

	byID := make(map[uuid.UUID]vocabulary.WordEntry, len(eligible))
	for _, entry := range eligible {
		byID[entry.ID] = entry
	}

	var pairs []Pair
	onBoard := make(map[uuid.UUID]struct{}, len(e.pairs))
	for _, pair := range e.pairs {
		entry, ok := byID[pair.ID]
		if !ok {
			continue
		}
		refreshed := newPair(entry, language)
		refreshed.Matched = pair.Matched
		pairs = append(pairs, refreshed)
		onBoard[pair.ID] = struct{}{}
	}

	var rest []vocabulary.WordEntry
	for _, entry := range eligible {
		if _, ok := onBoard[entry.ID]; !ok {
			rest = append(rest, entry)
		}
	}
	e.reserve = selection.Shuffle(e.rnd, rest)
	e.pairs = pairs
	for countUnmatched(e.pairs) < e.boardSize {
		entry, ok := e.pop()
		if !ok {
			break
		}
		e.pairs = append(e.pairs, newPair(entry, language))
	}
	e.shuffledRight = e.shuffle(e.pairs)
	e.logger.Debug("refreshed the board", "pairs", len(e.pairs), "reserve", len(e.reserve))
}

// Select toggles the pending selection of a column. Selecting the pending pair again clears it.
// Once both columns have a selection they are compared and both selections are cleared.
// Pairs that are not unmatched on the board are ignored.
func (e *Engine) Select(pair Pair, isLeft bool) SelectResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return SelectResult{}
	}

	column := e.pairs
	selected := &e.selectedLeft
	if !isLeft {
		column = e.shuffledRight
		selected = &e.selectedRight
	}
	index := indexOf(column, pair.ID)
	if index < 0 || column[index].Matched {
		return SelectResult{}
	}
	if *selected != nil && (*selected).ID == pair.ID {
		*selected = nil
	} else {
		chosen := column[index]
		*selected = &chosen
	}

	if e.selectedLeft == nil || e.selectedRight == nil {
		return SelectResult{}
	}

	result := SelectResult{Evaluated: true}
	if e.selectedLeft.ID == e.selectedRight.ID {
		result.Matched = true
		e.match(e.selectedLeft.ID)
	}
	e.selectedLeft = nil
	e.selectedRight = nil

	if len(e.pairs) > 0 && countUnmatched(e.pairs) == 0 {
		result.BoardCleared = true
		e.scheduleRegeneration()
	}
	return result
}

func (e *Engine) match(id uuid.UUID) {
	if i := indexOf(e.pairs, id); i >= 0 {
		e.pairs[i].Matched = true
	}
	if i := indexOf(e.shuffledRight, id); i >= 0 {
		e.shuffledRight[i].Matched = true
	}

	entry, ok := e.pop()
	if !ok {
		return
	}
	pair := newPair(entry, e.criteria().Language)
	e.pairs = append(e.pairs, pair)
	e.shuffledRight = e.shuffle(append(e.shuffledRight, pair))
}

// UpdateCriteria regenerates the board after the selection criteria changed.
// A change of the translation language alone keeps the words on the board.
func (e *Engine) UpdateCriteria(previous, next selection.Criteria) {
	e.GeneratePairs(onlyLanguageChanged(previous, next))
}

// Close cancels a pending regeneration. Later calls are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.cancelRegeneration()
}

func (e *Engine) scheduleRegeneration() {
	e.cancelRegeneration()
	token := e.token
	e.timer = e.scheduler.AfterFunc(RegenerateDelay, func() {
		e.mu.Lock()
		if e.closed || token != e.token {
			e.mu.Unlock()
			return
		}
		e.timer = nil
		e.generate(false)
		e.mu.Unlock()

		if e.onRegenerate != nil {
			e.onRegenerate()
		}
	})
}

func (e *Engine) cancelRegeneration() {
	e.token++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) pop() (vocabulary.WordEntry, bool) {
	if len(e.reserve) == 0 {
		return vocabulary.WordEntry{}, false
	}
	last := len(e.reserve) - 1
	entry := e.reserve[last]
	e.reserve = e.reserve[:last]
	return entry, true
}

func (e *Engine) shuffle(pairs []Pair) []Pair {
	shuffled := make([]Pair, len(pairs))
	copy(shuffled, pairs)
	e.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// LeftColumn returns the unmatched pairs in board order.
func (e *Engine) LeftColumn() []Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return unmatched(e.pairs)
}

// RightColumn returns the unmatched pairs in shuffled order.
func (e *Engine) RightColumn() []Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return unmatched(e.shuffledRight)
}

// Pairs returns the whole left board, matched pairs included.
func (e *Engine) Pairs() []Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Pair(nil), e.pairs...)
}

// ShuffledRight returns the whole right board, matched pairs included.
func (e *Engine) ShuffledRight() []Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Pair(nil), e.shuffledRight...)
}

func (e *Engine) SelectedLeft() (Pair, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selectedLeft == nil {
		return Pair{}, false
	}
	return *e.selectedLeft, true
}

func (e *Engine) SelectedRight() (Pair, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selectedRight == nil {
		return Pair{}, false
	}
	return *e.selectedRight, true
}

// Reserve returns the number of eligible words not dealt yet.
func (e *Engine) Reserve() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.reserve)
}

// ActiveIDs returns the ids on the board in board order.
func (e *Engine) ActiveIDs() []uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(e.pairs))
	for _, pair := range e.pairs {
		ids = append(ids, pair.ID)
	}
	return ids
}

func newPair(entry vocabulary.WordEntry, language string) Pair {
	translation, ok := entry.Translation(language)
	if !ok {
		translation = MissingTranslation
	}
	return Pair{ID: entry.ID, Left: entry.Word, Right: translation}
}

func indexOf(pairs []Pair, id uuid.UUID) int {
	for i, pair := range pairs {
		if pair.ID == id {
			return i
		}
	}
	return -1
}

func unmatched(pairs []Pair) []Pair {
	result := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		if !pair.Matched {
			result = append(result, pair)
		}
	}
	return result
}

func countUnmatched(pairs []Pair) int {
	n := 0
	for _, pair := range pairs {
		if !pair.Matched {
			n++
		}
	}
	return n
}

func onlyLanguageChanged(previous, next selection.Criteria) bool {
	if previous.Language == next.Language {
		return false
	}
	previous.Language = next.Language
	return sameCriteria(previous, next)
}

func sameCriteria(a, b selection.Criteria) bool {
	if a.Level != b.Level || a.IncludeLowerLevels != b.IncludeLowerLevels ||
		a.Language != b.Language || a.RequireTranslation != b.RequireTranslation ||
		len(a.CategoryIDs) != len(b.CategoryIDs) {
		return false
	}
	for i := range a.CategoryIDs {
		if a.CategoryIDs[i] != b.CategoryIDs[i] {
			return false
		}
	}
	return true
}
