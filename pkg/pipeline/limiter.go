package pipeline

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore keeps one ingest limiter per device identity so a single
// chatty accessory cannot starve the rest of the scan pipeline.
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(deviceKey string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[deviceKey]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[deviceKey] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(deviceKey string, deviceRate rate.Limit, deviceBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[deviceKey] = rate.NewLimiter(deviceRate, deviceBurst)
}
