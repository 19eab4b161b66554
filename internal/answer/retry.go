package answer

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go"
)

// IsRetryableError determines if an error should trigger a retry
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ErrUnavailable) {
		return true
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		// 5xx and rate limiting
		return upstreamErr.StatusCode >= 500 || upstreamErr.StatusCode == 429
	}

	if IsConnectionError(err) {
		return true
	}

	// Incomplete bodies usually come from a dropped connection
	errStr := err.Error()
	return strings.Contains(errStr, "unexpected end of JSON input") ||
		strings.Contains(errStr, "unexpected EOF")
}

// IsConnectionError reports whether err means the backend could not be reached at all
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout")
}

// Do calls fn until it succeeds, returns a non-retryable error, or maxRetryAttempts retries are used up.
// The last error is returned as is.
func Do(ctx context.Context, maxRetryAttempts uint, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err != nil && !IsRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying answer provider call",
				"attempt", n+1,
				"error", err)
		}),
	)
}
