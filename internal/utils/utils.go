package utils

import (
	"context"
	"math/rand"
	"time"
)

var sleep = time.Sleep

// WaitFor blocks for the given duration or until the context is cancelled.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// WaitBetween blocks for a random duration in [minD, maxD). Used for polite
// pacing between requests to external boards.
func WaitBetween(ctx context.Context, minD, maxD time.Duration) error {
	if maxD <= minD {
		return WaitFor(ctx, minD)
	}
	return WaitFor(ctx, minD+time.Duration(rand.Int63n(int64(maxD-minD))))
}
