package utils

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func quietLogger() *Logger { return NewLoggerTo(io.Discard, "error", "text") }

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: quietLogger()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: quietLogger()}
	sentinel := errors.New("down")

	err := r.Do(context.Background(), "ping", func(context.Context) error { return sentinel })

	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, Logger: quietLogger()}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, "ping", func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
