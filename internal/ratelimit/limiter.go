package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-key sliding-window request counter. A request at time t
// is admitted iff fewer than maxRequests admitted timestamps fall within
// (t-window, t]. Denied requests do not mutate the window; callers must
// fail fast rather than queue.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
	done        chan struct{}
}

func New(maxRequests int, window time.Duration) *Limiter {
	l := &Limiter{
		windows:     make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		done:        make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	close(l.done)
}

// Allow reports whether a request for key is admitted now, recording the
// timestamp on admission. Stale timestamps are pruned lazily on each check.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	window := l.windows[key]
	live := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= l.maxRequests {
		l.windows[key] = live
		return false
	}

	l.windows[key] = append(live, now)
	return true
}

// Remaining returns how many requests key could still issue in the current
// window without being denied.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.windows[key] {
		if ts.After(cutoff) {
			count++
		}
	}

	if count >= l.maxRequests {
		return 0
	}
	return l.maxRequests - count
}

// cleanup periodically drops keys whose windows have gone fully stale, so
// long-idle keys do not accumulate.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-2 * l.window)
			for key, window := range l.windows {
				if len(window) == 0 || !window[len(window)-1].After(cutoff) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}
