package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBackoff_Bounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		// Base caps at 30s, jitter adds at most half of that.
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap", attempt, d)
		}
	}
}

func TestBackoff_Grows(t *testing.T) {
	// Jitter aside, the minimum doubles per attempt until the cap.
	if Backoff(3) < 8*time.Second {
		t.Error("expected at least 8s at attempt 3")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
		{fmt.Errorf("add documents: %w", context.Canceled), false},
		{errors.New("connection refused"), true},
		{fmt.Errorf("store: %w", errors.New("timeout")), true},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
