package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// IPLimiter throttles inbound callers per client IP using token buckets.
// It guards the HTTP surface; outbound provider calls use Limiter instead.
type IPLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rps      float64
	burst    int
}

func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (p *IPLimiter) get(ip string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[ip]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.limiters[ip] = limiter
	return limiter
}

// Allow reports whether a request from ip may proceed now.
func (p *IPLimiter) Allow(ip string) bool {
	return p.get(ip).Allow()
}
