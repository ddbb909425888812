package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	runErr := errors.New("run failed")
	closeErr := errors.New("close failed")

	tests := []struct {
		name      string
		hooks     map[string]error
		runErr    error
		wantErrs  []error
		wantInErr string
	}{
		{
			name: "run returns nil",
		},
		{
			name:     "run returns error",
			runErr:   runErr,
			wantErrs: []error{runErr},
		},
		{
			name:      "hook errors are joined with the run error",
			hooks:     map[string]error{"database": closeErr},
			runErr:    runErr,
			wantErrs:  []error{runErr, closeErr},
			wantInErr: "shutdown database > close failed",
		},
		{
			name:      "hook error without run error",
			hooks:     map[string]error{"audio": closeErr},
			wantErrs:  []error{closeErr},
			wantInErr: "shutdown audio > close failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			for name, err := range tt.hooks {
				app.AddShutdownHook(name, func(ctx context.Context) error {
					return err
				})
			}

			err := app.Run(context.Background(), func(ctx context.Context) error {
				return tt.runErr
			})
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
			if tt.wantInErr != "" {
				assert.Contains(t, err.Error(), tt.wantInErr)
			}
		})
	}
}

func TestApp_HooksRunInReverseOrder(t *testing.T) {
	t.Run("after run returns", func(t *testing.T) {
		app := New()
		var order []string
		for _, name := range []string{"database", "audio"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
				order = append(order, name)
				return nil
			})
		}

		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		}))
		assert.Equal(t, []string{"audio", "database"}, order)
	})

	t.Run("on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hook registered from inside run", func(t *testing.T) {
		app := New()
		called := false
		err := app.Run(context.Background(), func(ctx context.Context) error {
			app.AddShutdownHook("session", func(ctx context.Context) error {
				called = true
				return nil
			})
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestApp_ShutdownRunsOnce(t *testing.T) {
	app := New()
	calls := 0
	app.AddShutdownHook("database", func(ctx context.Context) error {
		calls++
		// Registered too late to be called
		app.AddShutdownHook("audio", func(ctx context.Context) error {
			calls += 10
			return nil
		})
		return nil
	})

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestApp_ShutdownTimeout(t *testing.T) {
	app := New(WithShutdownTimeout(10 * time.Millisecond))
	app.AddShutdownHook("audio", func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, time.Second)
		<-ctx.Done()
		return ctx.Err()
	})

	err := app.Shutdown(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "shutdown audio")
}

func TestApp_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app := New(WithLogger(logger))
	app.AddShutdownHook("database", func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, app.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "msg=releasing resource=database")
}
