package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/at-ishikawa/alg/internal/matching"
)

// MatchEngine is the matching game driven by the CLI.
type MatchEngine interface {
	GeneratePairs(preserveIDs bool)
	Select(pair matching.Pair, isLeft bool) matching.SelectResult
	LeftColumn() []matching.Pair
	RightColumn() []matching.Pair
	Pairs() []matching.Pair
}

// MatchCLI manages the interactive matching game
type MatchCLI struct {
	*InteractiveCLI
	engine  MatchEngine
	matches int
}

func NewMatchCLI(engine MatchEngine, stdin io.Reader, stdout io.Writer) *MatchCLI {
	return &MatchCLI{
		InteractiveCLI: newInteractiveCLI(stdin, stdout),
		engine:         engine,
	}
}

// Matches returns the number of correct matches in the session.
func (r *MatchCLI) Matches() int {
	return r.matches
}

func (r *MatchCLI) Session(ctx context.Context) error {
	left := r.engine.LeftColumn()
	if len(left) == 0 {
		if len(r.engine.Pairs()) == 0 {
			r.printf("No words to match. Change the categories or the level in the settings.\n")
			return errEnd
		}
		// The board was cleared and the delayed regeneration has not run yet
		r.engine.GeneratePairs(false)
		left = r.engine.LeftColumn()
		if len(left) == 0 {
			r.printf("No words left to match.\n")
			return errEnd
		}
	}
	right := r.engine.RightColumn()

	r.printf("\n%s", FormatBoard(left, right))
	command, err := r.readCommand("Enter <left> <right> numbers, or q to quit > ")
	if err != nil {
		return err
	}
	if command == "q" || command == "quit" {
		return errEnd
	}

	leftIndex, rightIndex, err := parseSelection(command, len(left), len(right))
	if err != nil {
		r.printf("%s\n", r.red.Sprint(err.Error()))
		return nil
	}

	r.engine.Select(left[leftIndex], true)
	result := r.engine.Select(right[rightIndex], false)
	switch {
	case result.Matched:
		r.matches++
		r.printf("✅ %s\n", r.green.Sprintf("%s = %s", left[leftIndex].Left, left[leftIndex].Right))
	case result.Evaluated:
		r.printf("❌ %s\n", r.red.Sprintf("%s is not %s", left[leftIndex].Left, right[rightIndex].Right))
	}
	if result.BoardCleared {
		r.printf("%s\n", r.green.Sprint("Board cleared!"))
	}
	return nil
}

func parseSelection(command string, leftCount, rightCount int) (int, int, error) {
	fields := strings.Fields(command)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("enter two numbers, e.g. 1 3")
	}
	left, err := strconv.Atoi(fields[0])
	if err != nil || left < 1 || left > leftCount {
		return 0, 0, fmt.Errorf("left number must be between 1 and %d", leftCount)
	}
	right, err := strconv.Atoi(fields[1])
	if err != nil || right < 1 || right > rightCount {
		return 0, 0, fmt.Errorf("right number must be between 1 and %d", rightCount)
	}
	return left - 1, right - 1, nil
}

// FormatBoard renders the two columns side by side with 1-based numbers.
func FormatBoard(left, right []matching.Pair) string {
	width := 0
	for _, pair := range left {
		width = max(width, utf8.RuneCountInString(pair.Left))
	}

	var sb strings.Builder
	for i := 0; i < max(len(left), len(right)); i++ {
		leftCell := ""
		if i < len(left) {
			leftCell = fmt.Sprintf("%2d. %s", i+1, left[i].Left)
		}
		padding := width + 4 - utf8.RuneCountInString(leftCell)
		sb.WriteString(leftCell + strings.Repeat(" ", max(padding, 0)+4))
		if i < len(right) {
			sb.WriteString(fmt.Sprintf("%2d. %s", i+1, right[i].Right))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
