package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/randomword"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// WordsEngine is the random word session driven by the CLI.
type WordsEngine interface {
	Advance() randomword.Outcome
	GoBack() bool
	Reset() bool
	AcknowledgeCelebration() bool
	PlayForm(index int) bool
	Current() randomword.View
	HistoryIndex() int
	Phase() randomword.Phase
}

// WordMarks changes the learning state of a word.
type WordMarks interface {
	IsKnown(id uuid.UUID) bool
	IsIgnored(id uuid.UUID) bool
	IsFavorite(id uuid.UUID) bool
	MarkKnown(ctx context.Context, id uuid.UUID) error
	MarkIgnored(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error)
}

// Progress reports today's progress against the daily goal.
type Progress interface {
	LearnedToday() int
	DailyGoal() int
}

// WordsPreferences are the display settings read on every card.
type WordsPreferences interface {
	Language() string
	AutoAdvance() bool
}

// WordsCLI manages the interactive random word session
type WordsCLI struct {
	*InteractiveCLI
	engine      WordsEngine
	marks       WordMarks
	progress    Progress
	preferences WordsPreferences
}

// NewWordsCLI creates a new random word session reading commands from stdin.
func NewWordsCLI(
	engine WordsEngine,
	marks WordMarks,
	progress Progress,
	preferences WordsPreferences,
	stdin io.Reader,
	stdout io.Writer,
) *WordsCLI {
	return &WordsCLI{
		InteractiveCLI: newInteractiveCLI(stdin, stdout),
		engine:         engine,
		marks:          marks,
		progress:       progress,
		preferences:    preferences,
	}
}

const wordsPrompt = "[n]ext [b]ack [k]nown [i]gnore [f]avorite [1-9] form audio [r]eset [q]uit > "

func (r *WordsCLI) Session(ctx context.Context) error {
	if r.engine.Phase() != randomword.PhaseBrowsing {
		r.printf("%s\n", r.green.Sprint("Daily goal reached! Press Enter to continue."))
		command, err := r.readCommand("> ")
		if err != nil {
			return err
		}
		if command == "q" {
			return errEnd
		}
		r.engine.AcknowledgeCelebration()
		r.printCard()
		return nil
	}

	r.printCard()
	command, err := r.readCommand(wordsPrompt)
	if err != nil {
		return err
	}
	return r.handle(ctx, command)
}

func (r *WordsCLI) handle(ctx context.Context, command string) error {
	view := r.engine.Current()
	switch command {
	case "", "n":
		r.advance()
	case "b":
		if !r.engine.GoBack() {
			r.printf("%s\n", r.faint.Sprint("This is the first card."))
		}
	case "r":
		r.engine.Reset()
	case "k", "i":
		if view.Entry.IsPlaceholder() {
			r.printf("%s\n", r.faint.Sprint("Nothing to mark."))
			return nil
		}
		if command == "k" {
			if err := r.marks.MarkKnown(ctx, view.Entry.ID); err != nil {
				return fmt.Errorf("marks.MarkKnown(%s) > %w", view.Entry.ID, err)
			}
			r.printf("%s\n", r.green.Sprintf("Marked %s as known.", view.Entry.Word))
		} else {
			if err := r.marks.MarkIgnored(ctx, view.Entry.ID); err != nil {
				return fmt.Errorf("marks.MarkIgnored(%s) > %w", view.Entry.ID, err)
			}
			r.printf("%s\n", r.faint.Sprintf("%s will not be shown again.", view.Entry.Word))
		}
		if r.preferences.AutoAdvance() {
			r.advance()
		}
	case "f":
		if view.Entry.IsPlaceholder() {
			r.printf("%s\n", r.faint.Sprint("Nothing to mark."))
			return nil
		}
		favorite, err := r.marks.ToggleFavorite(ctx, view.Entry.ID)
		if err != nil {
			return fmt.Errorf("marks.ToggleFavorite(%s) > %w", view.Entry.ID, err)
		}
		if favorite {
			r.printf("Added %s to favorites.\n", view.Entry.Word)
		} else {
			r.printf("Removed %s from favorites.\n", view.Entry.Word)
		}
	case "q", "quit":
		return errEnd
	default:
		if n, err := strconv.Atoi(command); err == nil && n >= 1 {
			if !r.engine.PlayForm(n - 1) {
				r.printf("%s\n", r.faint.Sprintf("There is no form %d.", n))
			}
			return nil
		}
		r.printf("%s\n", r.red.Sprintf("Unknown command %q", command))
	}
	return nil
}

func (r *WordsCLI) advance() {
	if r.engine.Advance() == randomword.OutcomeCelebration {
		r.printf("%s\n", r.green.Sprintf("🎉 You learned %d words today!", r.progress.LearnedToday()))
	}
}

func (r *WordsCLI) printCard() {
	view := r.engine.Current()
	r.printf("\n%s\n", FormatCard(view, r.preferences.Language(), r.marks))
	r.printf("%s\n", r.faint.Sprintf("#%d  %s", r.engine.HistoryIndex()+1, ProgressBar(r.progress.LearnedToday(), r.progress.DailyGoal(), 20)))
}

// FormatCard renders the word of view, or its example when one is shown.
func FormatCard(view randomword.View, language string, marks WordMarks) string {
	entry := view.Entry
	if entry.IsPlaceholder() {
		title, ok := entry.Translation(language)
		if !ok {
			title, _ = entry.Translation("en")
		}
		return title
	}

	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprint(entry.Word))
	if entry.Phoneme != "" {
		sb.WriteString(" [" + entry.Phoneme + "]")
	}
	if entry.Level != nil {
		sb.WriteString(" (" + entry.Level.String() + ")")
	}
	if marks != nil && marks.IsFavorite(entry.ID) {
		sb.WriteString(" ★")
	}
	sb.WriteString("\n")

	translation, ok := entry.Translation(language)
	if !ok {
		translation = "-"
	}
	sb.WriteString(color.New(color.Italic).Sprint(translation))

	if view.ExampleIndex != nil && *view.ExampleIndex < len(entry.Examples) {
		example := entry.Examples[*view.ExampleIndex]
		sb.WriteString("\n  " + example.Text)
		if example.Phoneme != "" {
			sb.WriteString("\n  [" + example.Phoneme + "]")
		}
	} else if len(entry.Forms) > 0 {
		sb.WriteString("\n  " + formsLine(entry.Forms))
	}
	return sb.String()
}

// formsLine numbers the forms with the keys that play them.
func formsLine(forms []vocabulary.WordForm) string {
	names := make([]string, 0, len(forms))
	for i, form := range forms {
		names = append(names, fmt.Sprintf("%d. %s", i+1, form.Form))
	}
	return strings.Join(names, ", ")
}

// ProgressBar renders learned against goal, e.g. "[#####-----] 5/10".
func ProgressBar(learned, goal, width int) string {
	filled := width
	if goal > 0 && learned < goal {
		filled = learned * width / goal
	}
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("#", filled), strings.Repeat("-", width-filled), learned, goal)
}

var (
	_ WordsEngine = (*randomword.Engine)(nil)
	_ WordMarks   = (*learning.State)(nil)
	_ Progress    = (*learning.GoalManager)(nil)
)
