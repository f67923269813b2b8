// Package ratelimit provides per-client rate limiting using the token
// bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// bucketIdleTimeout is how long an untouched bucket survives before the
// cleanup pass removes it.
const bucketIdleTimeout = time.Hour

// tokenBucket holds tokens for one client. Tokens refill at a steady rate
// up to the bucket capacity.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow consumes one token when available.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// status reports remaining tokens and when the next token becomes
// available, without consuming anything.
func (tb *tokenBucket) status() (remaining int, retryAfter time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	remaining = int(tb.tokens)
	if tb.tokens < 1.0 {
		deficit := 1.0 - tb.tokens
		retryAfter = time.Duration(deficit / tb.refillRate * float64(time.Second))
	}
	return remaining, retryAfter
}

// Info describes the rate limit state for one decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter manages one token bucket per client key. A Limit of zero or less
// disables limiting entirely.
type Limiter struct {
	limit      int // requests per window
	window     time.Duration
	buckets    map[string]*tokenBucket
	lastAccess map[string]time.Time
	mu         sync.Mutex

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter granting limit requests per window to each
// distinct client key, with a background cleanup of idle buckets.
func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:      limit,
		window:     window,
		buckets:    make(map[string]*tokenBucket),
		lastAccess: make(map[string]time.Time),
	}

	if limit > 0 {
		l.cleanupTicker = time.NewTicker(5 * time.Minute)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow consumes one request slot for the client, reporting the decision
// and the current bucket state.
func (l *Limiter) Allow(clientID string) Info {
	if l.limit <= 0 {
		return Info{Allowed: true}
	}

	bucket := l.getBucket(clientID)
	allowed := bucket.allow()
	remaining, retryAfter := bucket.status()

	info := Info{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: remaining,
	}
	if !allowed {
		info.RetryAfter = retryAfter
	}
	return info
}

// TryConsume is the boolean form of Allow.
func (l *Limiter) TryConsume(clientID string) bool {
	return l.Allow(clientID).Allowed
}

func (l *Limiter) getBucket(key string) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		refillRate := float64(l.limit) / l.window.Seconds()
		bucket = newTokenBucket(l.limit, refillRate)
		l.buckets[key] = bucket
	}
	l.lastAccess[key] = time.Now()
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.removeIdle()
		case <-l.cleanupStop:
			return
		}
	}
}

func (l *Limiter) removeIdle() {
	cutoff := time.Now().Add(-bucketIdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
