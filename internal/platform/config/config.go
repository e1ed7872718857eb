// Package config loads service configuration from the environment so main
// stays lean. A local .env file is honored when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr     string
	LogLevel string

	// RecordStore selects the persistence backend: memory, postgres, redis.
	RecordStore string
	DatabaseURL string
	Redis       RedisConfig

	OpenAIKey   string
	OpenAIModel string

	// AnalysisCacheTTL bounds how long a cached gap analysis stays valid.
	AnalysisCacheTTL time.Duration

	// SessionTTL expires redis-backed applications; zero keeps them forever.
	SessionTTL time.Duration
}

// RedisConfig holds connection tuning for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables, loading .env first
// when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("RIREKISHO_ADDR", ":8080"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		RecordStore: envOr("RECORD_STORE", "memory"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOr("OPENAI_MODEL", "gpt-4o"),
		AnalysisCacheTTL: envDurationOr("ANALYSIS_CACHE_TTL", 10*time.Minute),
		SessionTTL:       envDurationOr("SESSION_TTL", 0),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
