package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_FirstCallDoesNotBlock(t *testing.T) {
	l := NewLimiter(1 * time.Second)

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v, expected immediate return", elapsed)
	}
}

func TestWait_SecondCallWaitsMinDelay(t *testing.T) {
	delay := 150 * time.Millisecond
	l := NewLimiter(delay)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay-20*time.Millisecond {
		t.Errorf("second Wait returned after %v, expected at least %v", elapsed, delay)
	}
}

func TestWait_NoBlockAfterDelayElapsed(t *testing.T) {
	delay := 50 * time.Millisecond
	l := NewLimiter(delay)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	time.Sleep(delay + 20*time.Millisecond)

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Errorf("Wait blocked for %v after the delay had already elapsed", elapsed)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	l := NewLimiter(5 * time.Second)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected error from Wait with cancelled context")
	}
}
