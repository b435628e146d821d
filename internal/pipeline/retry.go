package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// MaxRetries is the number of attempts for the embedding store step.
const MaxRetries = 3

const maxBackoff = 30 * time.Second

// Backoff returns an exponential delay with jitter for the given attempt.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// IsRetryable reports whether an error is worth retrying. Cancellation is
// final; everything else from the embedding path (network, Ollama hiccups)
// is assumed transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
