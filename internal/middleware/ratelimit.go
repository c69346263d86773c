package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Counter increments a fixed-window request counter and reports the
// window's count and end. Implemented in memory here and by Redis in
// the service package.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Time window for the limit
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on
}

// RateLimiter is a fixed-window rate limiter over a Counter.
type RateLimiter struct {
	config  RateLimitConfig
	counter Counter
	owned   *MemoryCounter
}

// NewRateLimiter creates a rate limiter. A nil counter selects an
// in-process MemoryCounter owned (and closed) by the limiter.
func NewRateLimiter(cfg RateLimitConfig, counter Counter) *RateLimiter {
	rl := &RateLimiter{config: cfg, counter: counter}
	if counter == nil {
		rl.owned = NewMemoryCounter()
		rl.counter = rl.owned
	}
	return rl
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := rl.config.KeyFn(c)

		count, resetAt, err := rl.counter.Incr(c.Context(), key, rl.config.Window)
		if err != nil {
			// Counter backend unavailable; let the request through.
			Logger.Warn().Err(err).Msg("rate limit counter failed")
			return c.Next()
		}

		remaining := rl.config.Max - count
		setRateLimitHeaders(c, rl.config.Max, remaining, resetAt)

		if remaining < 0 {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

// Allow checks if a request with the given key is allowed (for testing).
func (rl *RateLimiter) Allow(key string) bool {
	count, _, err := rl.counter.Incr(context.Background(), key, rl.config.Window)
	if err != nil {
		return true
	}
	return count <= rl.config.Max
}

// Close stops the limiter's own in-memory counter, if any.
func (rl *RateLimiter) Close() {
	if rl.owned != nil {
		rl.owned.Close()
	}
}

func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(remaining, 0)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
}

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryCounter is an in-process Counter with periodic cleanup of
// expired windows.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*entry

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemoryCounter creates a counter and starts its cleanup loop.
func NewMemoryCounter() *MemoryCounter {
	m := &MemoryCounter{
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.cleanup(5 * time.Minute)
	return m
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.entries[key]
	if !exists || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

// Close stops the cleanup loop and waits for it to exit.
func (m *MemoryCounter) Close() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *MemoryCounter) cleanup(every time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, e := range m.entries {
				if now.After(e.windowEnd) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// DefaultSearchRateLimit is the per-IP search budget per minute.
const DefaultSearchRateLimit = 20

// NewSearchRateLimiter limits pipeline runs per IP per minute. Each run
// costs upstream quota, so the form and the JSON API share one budget.
func NewSearchRateLimiter(perMinute int, counter Counter) *RateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultSearchRateLimit
	}
	return NewRateLimiter(RateLimitConfig{
		Max:    perMinute,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	}, counter)
}
