// Package bootstrap runs a command with signal handling and releases its resources on the way out.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds the time every hook together may take.
const DefaultShutdownTimeout = 5 * time.Second

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// App owns the resources of one command, such as the database and the audio downloads.
type App struct {
	logger  *slog.Logger
	timeout time.Duration

	mu    sync.Mutex
	hooks []hook
	done  bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger of the shutdown messages.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithShutdownTimeout sets the deadline of the context passed to the hooks.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(a *App) {
		a.timeout = timeout
	}
}

func New(options ...Option) *App {
	a := &App{
		logger:  slog.Default(),
		timeout: DefaultShutdownTimeout,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// AddShutdownHook registers fn to release a resource named name.
// Hooks run in reverse order of registration. Safe for concurrent use.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, hook{name: name, fn: fn})
}

// Run calls run with a context cancelled on SIGINT or SIGTERM.
// The hooks run once, when run returns or on the signal, and their errors are joined with the error of run.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Debug("interrupted, shutting down")
	case runErr = <-errCh:
	}
	return errors.Join(runErr, a.Shutdown(context.Background()))
}

// Shutdown calls the registered hooks. Later calls are no-ops.
// A hook may register another hook; it is not called.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return nil
	}
	a.done = true
	hooks := a.hooks
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		a.logger.Debug("releasing", "resource", hooks[i].name)
		if err := hooks[i].fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s > %w", hooks[i].name, err))
		}
	}
	return errors.Join(errs...)
}
