// Package ratelimit provides per-key token bucket rate limiting for the
// dashboard's event endpoint and MCP tools.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Limiter is a per-key token bucket. Each key gets its own bucket with the
// configured rate and burst. It is safe for concurrent use.
// A nil *Limiter allows everything.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // capacity and initial token count
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a limiter. A non-positive rate disables limiting and
// returns nil.
func NewLimiter(rate float64, burst int) *Limiter {
	if rate <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes one token from key's bucket, reporting false when none is left.
func (l *Limiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.burst), last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.tokens+l.rate*elapsed, float64(l.burst))
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by remote IP.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "too many events", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ToolLimiters maps MCP tool names to their limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters creates the default per-tool limits. Rendering the full
// view costs more than resolving the slider, so it gets the tighter budget.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"dashboard_view": NewLimiter(2.0, 10),  // 120/minute, burst 10
		"pyramid_series": NewLimiter(2.0, 10),  // 120/minute, burst 10
		"stats_table":    NewLimiter(5.0, 20),  // 300/minute, burst 20
		"slider_range":   NewLimiter(10.0, 30), // 600/minute, burst 30
	}
}

// CheckLimit returns an error when toolName is over its limit.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	if limiters[toolName].Allow(toolName) {
		return nil
	}
	return fmt.Errorf("rate limit exceeded for %s, please try again shortly", toolName)
}
