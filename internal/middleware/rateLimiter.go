package middleware

import (
	"sync"

	"golang.org/x/time/rate"

	"legisc-rag/internal/config"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

// IPRateLimiter keeps one token bucket per client IP. Status polling hits
// this on every request, so lookups take the shared lock and only the
// first sighting of an IP takes the exclusive one.
type IPRateLimiter struct {
	mu        sync.RWMutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	burstRate int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: r,
		burstRate: b,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, ok := i.limiters[ip]
	i.mu.RUnlock()
	if ok {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if limiter, ok = i.limiters[ip]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(i.rateLimit, i.burstRate)
	i.limiters[ip] = limiter
	return limiter
}

//TODO: entries are never evicted; offload the per-IP buckets to the
//redis store before this serves more than the assistant frontend
