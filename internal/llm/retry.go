package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Retrying wraps a Client with a bounded retry budget and exponential backoff.
// Only transport errors are retried; JSON parse failures happen above this
// layer and are never retried.
type Retrying struct {
	Client   Client
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

func WithRetry(c Client, attempts int, backoff, timeout time.Duration, logger *slog.Logger) *Retrying {
	if logger == nil {
		logger = slog.Default()
	}
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &Retrying{Client: c, Attempts: attempts, Backoff: backoff, Timeout: timeout, Logger: logger}
}

func (r *Retrying) Ask(ctx context.Context, parts []Part) (Result, error) {
	var lastErr error
	delay := r.Backoff
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		callCtx := ctx
		var cancel context.CancelFunc
		if r.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		}
		res, err := r.Client.Ask(callCtx, parts)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return res, nil
		}
		lastErr = err
		if errors.Is(ctx.Err(), context.Canceled) {
			break
		}
		r.Logger.Warn("llm.retry", "attempt", attempt, "of", r.Attempts, "error", err)
		if attempt < r.Attempts {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Result{}, ctx.Err()
			}
			delay *= 2
		}
	}
	return Result{}, lastErr
}
