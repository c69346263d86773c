package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read from the environment. The YouTube API key is deliberately
// absent: it is supplied per request by the user.
type Config struct {
	Port            string
	LogLevel        string
	Environment     string
	CORSOrigins     string
	RedisURL        string
	YouTubeBaseURL  string
	YouTubeTimeout  time.Duration
	SearchRateLimit int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RedisURL:        getEnv("REDIS_URL", ""),
		YouTubeBaseURL:  getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeTimeout:  getDuration("YOUTUBE_TIMEOUT", 15*time.Second),
		SearchRateLimit: getInt("SEARCH_RATE_LIMIT", 20),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
