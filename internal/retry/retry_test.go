package retry

import (
	"context"
	"testing"
	"time"
)

func TestDoIntervalSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	probe := func() (int, bool) {
		attempts++
		return attempts, attempts >= 3
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, ok := DoInterval(ctx, time.Millisecond, probe)
	if !ok {
		t.Fatal("expected success")
	}
	if v != 3 {
		t.Fatalf("got %d, want 3", v)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestDoIntervalSucceedsImmediately(t *testing.T) {
	probe := func() (string, bool) { return "ready", true }

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, ok := DoInterval(ctx, time.Millisecond, probe)
	if !ok || v != "ready" {
		t.Fatalf("got (%q, %v), want (\"ready\", true)", v, ok)
	}
}

func TestDoIntervalReturnsOnCancellation(t *testing.T) {
	probe := func() (int, bool) { return 0, false }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, ok := DoInterval(ctx, time.Millisecond, probe)
	if ok {
		t.Fatal("expected failure after cancellation")
	}
	if v != 0 {
		t.Fatalf("got %d, want zero value", v)
	}
}
