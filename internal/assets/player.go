package assets

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Player plays a local audio file and returns when playback ends.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ErrNoPlayer is returned when no audio player binary is installed.
var ErrNoPlayer = errors.New("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")

// CommandPlayer plays files through an external command such as afplay or mpg123.
type CommandPlayer struct {
	command string
	args    []string
}

// NewCommandPlayer uses command when given, otherwise the first player found for the OS.
func NewCommandPlayer(command string) (*CommandPlayer, error) {
	if command != "" {
		if _, err := exec.LookPath(command); err != nil {
			return nil, fmt.Errorf("exec.LookPath(%s) > %w", command, err)
		}
		return &CommandPlayer{command: command}, nil
	}
	return detectPlayer(runtime.GOOS, exec.LookPath)
}

func detectPlayer(goos string, lookPath func(string) (string, error)) (*CommandPlayer, error) {
	switch goos {
	case "darwin":
		return &CommandPlayer{command: "afplay"}, nil
	case "windows":
		return &CommandPlayer{command: "cmd", args: []string{"/c", "start", "/min"}}, nil
	}

	candidates := []CommandPlayer{
		// mpg123 first since it handles MP3 files best
		{command: "mpg123", args: []string{"-q"}},
		{command: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{command: "play", args: []string{"-q"}},
		{command: "paplay"},
		{command: "aplay", args: []string{"-q"}},
	}
	for _, candidate := range candidates {
		if _, err := lookPath(candidate.command); err == nil {
			player := candidate
			return &player, nil
		}
	}
	return nil, ErrNoPlayer
}

// Command returns the player binary name.
func (p *CommandPlayer) Command() string {
	return p.command
}

func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.command, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s > %w", p.command, err)
	}
	return nil
}
