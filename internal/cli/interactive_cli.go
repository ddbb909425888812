package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
)

var (
	errEnd = errors.New("end")
)

// InteractiveCLI contains shared logic for interactive sessions
type InteractiveCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	faint        *color.Color
	green        *color.Color
	red          *color.Color
}

func newInteractiveCLI(stdin io.Reader, stdout io.Writer) *InteractiveCLI {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &InteractiveCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		faint:        color.New(color.Faint),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

//go:generate mockgen -source=interactive_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

// Run calls session until it ends, fails or the user interrupts.
func (cli *InteractiveCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readCommand reads one trimmed line. A closed input ends the session.
func (cli *InteractiveCLI) readCommand(prompt string) (string, error) {
	_, _ = cli.bold.Fprint(cli.stdoutWriter, prompt)
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(cli.stdoutWriter)
			return "", errEnd
		}
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (cli *InteractiveCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}
