package server

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const cacheSize = 1000

// ipRateLimiter hands out one token-bucket limiter per remote IP,
// evicting the least recently used entry once the LRU cache fills.
// Entries also expire after 24h so an IP that stops connecting
// doesn't pin memory forever.
type ipRateLimiter struct {
	cache gcache.Cache
	mu    *sync.RWMutex
	r     rate.Limit
	b     int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		cache: gcache.New(cacheSize).LRU().Build(),
		mu:    &sync.RWMutex{},
		r:     r,
		b:     b,
	}
}

func (i *ipRateLimiter) addIP(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter := rate.NewLimiter(i.r, i.b)
	i.cache.SetWithExpire(ip, limiter, 24*time.Hour)
	return limiter
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()

	limiter, err := i.cache.Get(ip)
	if err != nil {
		i.mu.Unlock()
		return i.addIP(ip)
	}
	i.mu.Unlock()
	return limiter.(*rate.Limiter)
}
