package assets

//go:generate mockgen -source=fetcher.go -destination=../mocks/assets/mock_fetcher.go -package=mock_assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/sony/gobreaker"
	"resty.dev/v3"
)

// RemoteFetcher downloads a file relative to the asset host.
type RemoteFetcher interface {
	Fetch(ctx context.Context, remotePath string) ([]byte, error)
}

// StatusError is returned when the asset host answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Path)
}

// IsNotFound reports whether err is a 404 from the asset host.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

type HTTPFetcherOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

// HTTPFetcher downloads files with retries behind a circuit breaker,
// so an unreachable host does not stall every prefetch.
type HTTPFetcher struct {
	httpClient       *resty.Client
	breaker          *gobreaker.CircuitBreaker
	maxRetryAttempts uint
	retryDelay       time.Duration
	logger           *slog.Logger
}

func NewHTTPFetcher(options HTTPFetcherOptions) *HTTPFetcher {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if options.Timeout <= 0 {
		options.Timeout = 15 * time.Second
	}
	if options.RetryDelay <= 0 {
		options.RetryDelay = 200 * time.Millisecond
	}
	if options.FailureThreshold == 0 {
		options.FailureThreshold = 5
	}
	if options.OpenTimeout <= 0 {
		options.OpenTimeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(options.BaseURL, "/"))
	client.SetTimeout(options.Timeout)

	threshold := options.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "assets",
		Timeout: options.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A missing file is an answer from a healthy host.
		IsSuccessful: func(err error) bool {
			return err == nil || IsNotFound(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("asset host circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPFetcher{
		httpClient:       client,
		breaker:          breaker,
		maxRetryAttempts: options.RetryAttempts,
		retryDelay:       options.RetryDelay,
		logger:           logger,
	}
}

func (fetcher *HTTPFetcher) Close() error {
	return fetcher.httpClient.Close()
}

func (fetcher *HTTPFetcher) Fetch(ctx context.Context, remotePath string) ([]byte, error) {
	var body []byte
	var lastErr error
	if err := retry.Do(
		func() error {
			result, err := fetcher.breaker.Execute(func() (interface{}, error) {
				return fetcher.get(ctx, remotePath)
			})
			if err != nil {
				lastErr = err
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				fetcher.logger.Debug("retrying asset download", "path", remotePath, "error", err)
				return err
			}
			body = result.([]byte)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(fetcher.maxRetryAttempts+1),
		retry.Delay(fetcher.retryDelay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	); err != nil {
		// Keep the typed error of the last attempt so callers can tell a 404 apart
		if lastErr != nil && ctx.Err() == nil {
			err = lastErr
		}
		return nil, fmt.Errorf("fetch %s > %w", remotePath, err)
	}
	return body, nil
}

func (fetcher *HTTPFetcher) get(ctx context.Context, remotePath string) ([]byte, error) {
	response, err := fetcher.httpClient.R().
		SetContext(ctx).
		Get("/" + strings.TrimPrefix(remotePath, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, &StatusError{StatusCode: response.StatusCode(), Path: remotePath}
	}
	return response.Bytes(), nil
}

// isRetryableError reports whether another attempt could succeed.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}

	// Network-level errors are worth another attempt
	return true
}
