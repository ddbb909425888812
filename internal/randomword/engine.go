// Package randomword drives the flashcard session: it picks random eligible words,
// reveals their examples and keeps a navigable history of everything shown.
package randomword

//go:generate mockgen -source=engine.go -destination=../mocks/randomword/mock_engine.go -package=mock_randomword

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/schedule"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

const (
	// CelebrationDuration is how long the goal celebration is shown before the video.
	CelebrationDuration = 3 * time.Second
	// VideoDuration is how long the celebration video plays before the next word.
	VideoDuration = 5 * time.Second

	// AllExamples is the examples cap meaning every example of a word.
	AllExamples = -1
)

// Picker picks a random eligible word.
type Picker interface {
	Pick(criteria selection.Criteria) selection.Pick
}

// Goal is the daily learning goal.
type Goal interface {
	ShouldShowGoalAnimation() bool
	MarkGoalAnimationShown() error
	IncrementProgress() error
}

// Audio plays and prefetches word audio. Every call must return immediately.
type Audio interface {
	Play(id uuid.UUID)
	PlayExample(id uuid.UUID, index int)
	PlayWordForm(id uuid.UUID, index int)
	// Stop interrupts whatever is playing.
	Stop()
	Prefetch(id uuid.UUID)
	// PrefetchExamples downloads up to limit examples of a word. AllExamples downloads every one.
	PrefetchExamples(id uuid.UUID, limit int)
}

// CriteriaSource returns the current selection criteria.
type CriteriaSource func() selection.Criteria

// Preferences are the display and sound settings of a session.
type Preferences struct {
	PlaySound             bool
	ShowExamplesAfterWord bool
	// ExamplesToShow caps revealed examples per word. AllExamples shows all of them.
	ExamplesToShow int
}

// Phase is the state of the goal celebration.
type Phase int

const (
	PhaseBrowsing Phase = iota
	PhaseCelebration
	PhaseVideo
)

func (p Phase) String() string {
	switch p {
	case PhaseCelebration:
		return "celebration"
	case PhaseVideo:
		return "video"
	default:
		return "browsing"
	}
}

// Outcome tells what Advance did.
type Outcome int

const (
	OutcomeBlocked Outcome = iota
	OutcomeCelebration
	OutcomeHistoryForward
	OutcomeExample
	OutcomeWord
)

func (o Outcome) String() string {
	return [...]string{"blocked", "celebration", "history_forward", "example", "word"}[o]
}

// View is what is currently displayed.
type View struct {
	Entry      vocabulary.WordEntry
	CategoryID uuid.UUID
	// ExampleIndex is set when an example of Entry is displayed.
	ExampleIndex *int
}

// Options configures an Engine. Picker is required.
type Options struct {
	Picker   Picker
	Criteria CriteriaSource
	// Membership, when set, is used to skip a prefetched word that was marked known or ignored meanwhile.
	Membership  selection.Membership
	Goal        Goal
	Audio       Audio
	Scheduler   schedule.Scheduler
	Randomizer  selection.Randomizer
	Logger      *slog.Logger
	Preferences Preferences
	// OnPhaseChange is called after a scheduled celebration step, outside the engine lock.
	OnPhaseChange func(Phase)
}

// Engine is safe for concurrent use. Goal and Audio must not call back into the engine.
type Engine struct {
	picker        Picker
	criteria      CriteriaSource
	membership    selection.Membership
	goal          Goal
	audio         Audio
	scheduler     schedule.Scheduler
	rnd           selection.Randomizer
	logger        *slog.Logger
	onPhaseChange func(Phase)

	mu            sync.Mutex
	preferences   Preferences
	history       *History
	shownExamples []int
	next          *selection.Pick
	generation    uint64
	phase         Phase
	celebration   uint64
	timer         schedule.Timer
	closed        bool
	wg            sync.WaitGroup
}

// NewEngine creates an engine. Nothing is picked before Initialize.
func NewEngine(options Options) *Engine {
	if options.Scheduler == nil {
		options.Scheduler = schedule.Real{}
	}
	if options.Randomizer == nil {
		options.Randomizer = selection.NewRandomizer(0)
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
		picker:        options.Picker,
		criteria:      options.Criteria,
		membership:    options.Membership,
		goal:          options.Goal,
		audio:         options.Audio,
		scheduler:     options.Scheduler,
		rnd:           options.Randomizer,
		logger:        options.Logger,
		onPhaseChange: options.OnPhaseChange,
		preferences:   options.Preferences,
	}
}

// Initialize picks the first word and starts prefetching the second one.
// The engine is closed when ctx is done.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.restart()
	context.AfterFunc(ctx, e.Close)
}

// Reset discards the history and starts over with a fresh word.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.history == nil || e.phase != PhaseBrowsing {
		return false
	}
	e.restart()
	return true
}

func (e *Engine) restart() {
	pick := e.picker.Pick(e.criteria())
	if e.history == nil {
		e.history = NewHistory(WordItem(pick.Entry, pick.CategoryID))
	} else {
		e.history.Reset(WordItem(pick.Entry, pick.CategoryID))
	}
	e.shownExamples = nil
	e.next = nil
	e.logger.Debug("session started", "word", pick.Entry.Word, "category", pick.CategoryID)
	e.present(e.history.Current())
	e.startPrefetch()
}

// Advance shows the next card.
func (e *Engine) Advance() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.history == nil || e.phase != PhaseBrowsing {
		return OutcomeBlocked
	}

	if e.goal != nil && e.goal.ShouldShowGoalAnimation() {
		if err := e.goal.MarkGoalAnimationShown(); err != nil {
			e.logger.Warn("failed to record the goal celebration", "error", err)
		}
		e.startCelebration()
		return OutcomeCelebration
	}

	if item, ok := e.history.Forward(); ok {
		e.present(item)
		return OutcomeHistoryForward
	}

	if e.preferences.ShowExamplesAfterWord && e.revealExample() {
		return OutcomeExample
	}

	e.proceedToNextWord()
	return OutcomeWord
}

// GoBack shows the previous card. It reports false at the first card or during a celebration.
func (e *Engine) GoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.history == nil || e.phase != PhaseBrowsing {
		return false
	}
	item, ok := e.history.Back()
	if !ok {
		return false
	}
	e.present(item)
	return true
}

// UpdateCriteria is called after the selection criteria changed.
// The displayed word and the history are kept; the upcoming word is picked again under the new criteria.
func (e *Engine) UpdateCriteria() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.history == nil {
		return
	}
	e.next = nil
	e.startPrefetch()
}

// SetPreferences applies to the cards shown from now on.
func (e *Engine) SetPreferences(preferences Preferences) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preferences = preferences
}

// AcknowledgeCelebration ends a running celebration early and shows the next word.
func (e *Engine) AcknowledgeCelebration() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.phase == PhaseBrowsing {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.celebration++
	e.finishCelebration()
	return true
}

// Close stops timers. Later prefetch deliveries and timer callbacks are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.generation++
	e.next = nil
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Wait blocks until every in-flight prefetch has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Current returns the displayed card.
func (e *Engine) Current() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return View{}
	}
	item := e.history.Current()
	view := View{Entry: item.Entry, CategoryID: item.CategoryID}
	if item.Kind == KindExample {
		index := item.ExampleIndex
		view.ExampleIndex = &index
	}
	return view
}

func (e *Engine) HistoryIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return 0
	}
	return e.history.Index()
}

func (e *Engine) History() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return nil
	}
	return e.history.Items()
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// PlayForm plays the audio of a form of the displayed word.
// It reports false when the word has no such form. The sound setting does not apply.
func (e *Engine) PlayForm(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.history == nil || e.audio == nil {
		return false
	}
	entry := e.history.Current().Entry
	if entry.IsPlaceholder() || index < 0 || index >= len(entry.Forms) {
		return false
	}
	e.audio.PlayWordForm(entry.ID, index)
	return true
}

// Prefetched returns the word that the next Advance will show, if it is ready.
func (e *Engine) Prefetched() (selection.Pick, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.next == nil {
		return selection.Pick{}, false
	}
	return *e.next, true
}

func (e *Engine) revealExample() bool {
	current := e.history.Current()
	examples := current.Entry.Examples
	limit := len(examples)
	if e.preferences.ExamplesToShow != AllExamples && e.preferences.ExamplesToShow < limit {
		limit = max(e.preferences.ExamplesToShow, 0)
	}
	if len(e.shownExamples) >= limit {
		return false
	}

	shown := make(map[int]struct{}, len(e.shownExamples))
	for _, index := range e.shownExamples {
		shown[index] = struct{}{}
	}
	var available []int
	for index := range examples {
		if _, ok := shown[index]; !ok {
			available = append(available, index)
		}
	}
	if len(available) == 0 {
		return false
	}

	index := available[e.rnd.Intn(len(available))]
	e.shownExamples = append(e.shownExamples, index)
	item := ExampleItem(current.Entry, current.CategoryID, index)
	e.history.Append(item)
	e.present(item)
	return true
}

func (e *Engine) proceedToNextWord() {
	pick := e.takePrefetched()
	e.shownExamples = nil
	item := WordItem(pick.Entry, pick.CategoryID)
	e.history.Append(item)

	if e.goal != nil && !pick.Entry.IsPlaceholder() {
		if err := e.goal.IncrementProgress(); err != nil {
			e.logger.Warn("failed to count the daily progress", "error", err)
		}
	}
	e.present(item)

	if e.audio != nil && e.preferences.PlaySound && e.preferences.ShowExamplesAfterWord && !pick.Entry.IsPlaceholder() {
		e.audio.PrefetchExamples(pick.Entry.ID, e.preferences.ExamplesToShow)
	}
	e.startPrefetch()
}

// takePrefetched returns the prefetched word, or picks one now when none arrived yet
// or it was marked known or ignored since.
func (e *Engine) takePrefetched() selection.Pick {
	next := e.next
	e.next = nil
	if next != nil && !e.isHidden(next.Entry) {
		return *next
	}
	e.logger.Debug("picking the next word synchronously", "prefetched", next != nil)
	return e.picker.Pick(e.criteria())
}

func (e *Engine) isHidden(entry vocabulary.WordEntry) bool {
	if e.membership == nil || entry.IsPlaceholder() {
		return false
	}
	return e.membership.IsKnown(entry.ID) || e.membership.IsIgnored(entry.ID)
}

// startPrefetch picks the following word in the background.
// Only the most recently started prefetch is delivered.
func (e *Engine) startPrefetch() {
	e.generation++
	generation := e.generation
	criteria := e.criteria()
	playSound := e.preferences.PlaySound

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		pick := e.picker.Pick(criteria)
		if playSound && e.audio != nil && !pick.Entry.IsPlaceholder() {
			e.audio.Prefetch(pick.Entry.ID)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || generation != e.generation {
			e.logger.Debug("discarding stale prefetch", "word", pick.Entry.Word)
			return
		}
		e.next = &pick
	}()
}

func (e *Engine) present(item Item) {
	if e.audio == nil {
		return
	}
	if !e.preferences.PlaySound || item.Entry.IsPlaceholder() {
		// A form played on the previous card must not continue on this one
		e.audio.Stop()
		return
	}
	if item.Kind == KindExample {
		e.audio.PlayExample(item.Entry.ID, item.ExampleIndex)
		return
	}
	e.audio.Play(item.Entry.ID)
}

func (e *Engine) startCelebration() {
	e.phase = PhaseCelebration
	e.celebration++
	token := e.celebration
	e.timer = e.scheduler.AfterFunc(CelebrationDuration, func() { e.celebrationStep(token) })
}

func (e *Engine) celebrationStep(token uint64) {
	e.mu.Lock()
	if e.closed || token != e.celebration {
		e.mu.Unlock()
		return
	}
	switch e.phase {
	case PhaseCelebration:
		e.phase = PhaseVideo
		e.timer = e.scheduler.AfterFunc(VideoDuration, func() { e.celebrationStep(token) })
	case PhaseVideo:
		e.finishCelebration()
	}
	phase := e.phase
	e.mu.Unlock()

	if e.onPhaseChange != nil {
		e.onPhaseChange(phase)
	}
}

func (e *Engine) finishCelebration() {
	e.phase = PhaseBrowsing
	e.timer = nil
	e.proceedToNextWord()
}
