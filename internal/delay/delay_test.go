package delay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSleepElapses(t *testing.T) {
	start := time.Now()
	Sleep(60*time.Millisecond, func() bool { return false })
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("returned early after %v", elapsed)
	}
}

func TestSleepZeroReturnsImmediately(t *testing.T) {
	start := time.Now()
	Sleep(0, nil)
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("zero sleep took %v", elapsed)
	}
}

func TestSleepCancelledPromptly(t *testing.T) {
	var cancelled atomic.Bool
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancelled.Store(true)
	}()

	start := time.Now()
	Sleep(2*time.Second, cancelled.Load)
	elapsed := time.Since(start)

	// cancellation at ~30ms must be seen within one poll interval
	if elapsed > 30*time.Millisecond+PollInterval+40*time.Millisecond {
		t.Errorf("cancelled sleep took %v", elapsed)
	}
}

func TestSleepAlreadyCancelled(t *testing.T) {
	start := time.Now()
	Sleep(time.Second, func() bool { return true })
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("already-cancelled sleep took %v", elapsed)
	}
}

func TestSleepContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	SleepContext(ctx, time.Second, nil)
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("context-cancelled sleep took %v", elapsed)
	}
}
