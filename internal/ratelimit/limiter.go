// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DomainLimiter keeps a token bucket per host. It caps how many pages are
// requested per host over time, on top of the fixed waits of a run.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing pagesPerMinute pages per host,
// with burst pages available up front
func NewDomainLimiter(pagesPerMinute float64, burst int) *DomainLimiter {
	if pagesPerMinute <= 0 {
		pagesPerMinute = 6
	}
	if burst <= 0 {
		burst = 1
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Every(time.Duration(float64(time.Minute) / pagesPerMinute)),
		burst:    burst,
	}
}

// Wait blocks until a page of the URL's host can be requested
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	domain := extractDomain(urlStr)
	if domain == "" {
		// Invalid URL, let it proceed (navigation reports it)
		return nil
	}

	return dl.getLimiter(domain).Wait(ctx)
}

// PagesPerMinute returns the configured per-host budget
func (dl *DomainLimiter) PagesPerMinute() float64 {
	return float64(dl.perHost) * 60
}

// getLimiter returns or creates the limiter for the given domain
func (dl *DomainLimiter) getLimiter(domain string) *rate.Limiter {
	dl.mu.RLock()
	limiter, exists := dl.limiters[domain]
	dl.mu.RUnlock()

	if exists {
		return limiter
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := dl.limiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[domain] = limiter

	return limiter
}

// extractDomain extracts the host from a URL string
func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
