package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestDomainLimiterBudget(t *testing.T) {
	l := NewDomainLimiter(60, 2)

	if l.perHost != rate.Every(time.Second) {
		t.Fatalf("limit = %v, want one page per second", l.perHost)
	}
	if got := l.PagesPerMinute(); got < 59.99 || got > 60.01 {
		t.Errorf("PagesPerMinute = %v, want 60", got)
	}

	// The burst is available immediately, the next page is not.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://www.linkedin.com/a"); err != nil {
		t.Fatalf("first burst page: %v", err)
	}
	if err := l.Wait(ctx, "https://www.linkedin.com/b"); err != nil {
		t.Fatalf("second burst page: %v", err)
	}
	if err := l.Wait(ctx, "https://www.linkedin.com/c"); err == nil {
		t.Error("third page should exceed the burst within the deadline")
	}

	// Hosts are budgeted independently.
	if err := l.Wait(ctx, "https://example.com/"); err != nil {
		t.Errorf("other host should have its own budget: %v", err)
	}
}

func TestDomainLimiterWaitHonoursContext(t *testing.T) {
	l := NewDomainLimiter(1, 1)
	ctx := context.Background()

	if err := l.Wait(ctx, "https://www.linkedin.com/"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := l.Wait(cancelled, "https://www.linkedin.com/"); err == nil {
		t.Error("expected error from cancelled context")
	}

	if err := l.Wait(ctx, "://bad"); err != nil {
		t.Errorf("invalid URLs pass through, got %v", err)
	}
}

func TestNewDomainLimiterDefaults(t *testing.T) {
	l := NewDomainLimiter(0, 0)
	if l.perHost != rate.Every(10*time.Second) || l.burst != 1 {
		t.Errorf("defaults = %v burst %d", l.perHost, l.burst)
	}
}
