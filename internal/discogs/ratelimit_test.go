package discogs

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("Enforces Minimum Gap Between Slots", func(t *testing.T) {
		// 600 req/min = one slot per 100ms; three sequential waits must
		// span at least two full intervals.
		limiter := NewRateLimiter(600)
		ctx := context.Background()

		var grants []time.Time
		for i := 0; i < 3; i++ {
			if err := limiter.WaitForNextSlot(ctx); err != nil {
				t.Fatalf("WaitForNextSlot failed: %v", err)
			}
			grants = append(grants, time.Now())
		}

		// Allow a little scheduler jitter below the nominal interval.
		minGap := 90 * time.Millisecond
		for i := 1; i < len(grants); i++ {
			if gap := grants[i].Sub(grants[i-1]); gap < minGap {
				t.Errorf("gap between slot %d and %d was %v, want >= %v", i-1, i, gap, minGap)
			}
		}
	})

	t.Run("First Slot Is Immediate", func(t *testing.T) {
		limiter := NewRateLimiter(1)

		start := time.Now()
		if err := limiter.WaitForNextSlot(context.Background()); err != nil {
			t.Fatalf("WaitForNextSlot failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("first slot took %v, expected immediate grant", elapsed)
		}
	})

	t.Run("Cancelled Context Aborts Wait", func(t *testing.T) {
		limiter := NewRateLimiter(1)

		// Consume the initial token so the next wait would block for a minute.
		if err := limiter.WaitForNextSlot(context.Background()); err != nil {
			t.Fatalf("WaitForNextSlot failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := limiter.WaitForNextSlot(ctx); err == nil {
			t.Error("expected error from cancelled wait")
		}
	})

	t.Run("Non-Positive Rate Defaults To One Per Minute", func(t *testing.T) {
		limiter := NewRateLimiter(0)
		if err := limiter.WaitForNextSlot(context.Background()); err != nil {
			t.Fatalf("WaitForNextSlot failed: %v", err)
		}
	})
}
