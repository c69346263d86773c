package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const rateKeyPrefix = "ratelimit:"

// RedisService holds the optional Redis connection. It backs the shared
// rate-limit counters only; no query or result data is ever written to it.
type RedisService struct {
	rdb *redis.Client
}

// NewRedisService connects to redisURL. If the URL is empty or the
// connection fails it returns a RedisService with a nil client, and
// callers fall back to in-process counters.
func NewRedisService(redisURL string, logger zerolog.Logger) *RedisService {
	if redisURL == "" {
		logger.Info().Msg("redis: no URL configured, using in-memory rate limiting")
		return &RedisService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis: invalid URL, using in-memory rate limiting")
		return &RedisService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis: connection failed, using in-memory rate limiting")
		_ = rdb.Close()
		return &RedisService{}
	}

	logger.Info().Msg("redis: connected, shared rate limiting enabled")
	return &RedisService{rdb: rdb}
}

// NewRedisServiceFromClient wraps an existing client.
func NewRedisServiceFromClient(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (s *RedisService) Client() *redis.Client {
	return s.rdb
}

// Enabled reports whether a Redis connection is available.
func (s *RedisService) Enabled() bool {
	return s.rdb != nil
}

// Incr bumps the fixed-window counter for key and returns the new count
// and the time the window ends. The first hit of a window sets its expiry.
func (s *RedisService) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	k := rateKeyPrefix + key
	n, err := s.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if n == 1 {
		if err := s.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
	}

	ttl, err := s.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if ttl < 0 {
		// Expiry was lost (e.g. a crash between INCR and PEXPIRE); restart the window.
		if err := s.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = window
	}
	return int(n), time.Now().Add(ttl), nil
}

// Close shuts down the Redis connection.
func (s *RedisService) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
