// Package delay provides the cancellable pause used to pace algorithm steps.
package delay

import (
	"context"
	"time"
)

// PollInterval is how often a pending Sleep checks for cancellation.
const PollInterval = 50 * time.Millisecond

// Sleep blocks until d elapses or cancelled reports true. It does not say
// which one happened; callers check cancelled again before continuing.
func Sleep(d time.Duration, cancelled func() bool) {
	SleepContext(context.Background(), d, cancelled)
}

// SleepContext is Sleep that also returns when ctx is done.
func SleepContext(ctx context.Context, d time.Duration, cancelled func() bool) {
	if cancelled == nil {
		cancelled = func() bool { return false }
	}
	if d <= 0 || cancelled() {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(min(PollInterval, d))
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cancelled() {
				return
			}
		}
	}
}
