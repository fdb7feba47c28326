// Package limit applies per-client request limits in services.
package limit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrRateLimited = errors.New("rate limited")

type Limiter interface {
	Allow(ctx context.Context, suffix string) (allowed bool, current int64, retryAfter time.Duration, err error)
}

type Error struct {
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e *Error) Is(target error) bool { return target == ErrRateLimited }

// Check consumes one hit for key. A nil limiter or empty key always passes.
func Check(ctx context.Context, l Limiter, key string) error {
	if l == nil || key == "" {
		return nil
	}

	ok, _, retry, err := l.Allow(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{RetryAfter: retry}
	}

	return nil
}
