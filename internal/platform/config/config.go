package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv builds it from
// environment variables so main stays lean.
type Config struct {
	Addr string

	// DatabaseURL selects the PostgreSQL document store. Empty means the
	// in-memory stores are used (development and tests).
	DatabaseURL string

	Redis RedisConfig

	// Kafka carries the audit trail sink. Empty brokers means audit events
	// are logged instead of published.
	KafkaBrokers []string
	KafkaTopic   string

	// FaceServiceURL points at the external face detection/encoding service.
	FaceServiceURL string

	// OCRLanguages are the trained-data hints handed to the OCR engine.
	// The source document is a Spanish-language ID card.
	OCRLanguages []string

	// BranchTimeout bounds each of the two verification branches (text, face).
	// Expiry degrades that branch, it does not fail the request.
	BranchTimeout time.Duration

	// RateLimitPerMinute caps verify/enroll calls per client IP. Zero disables
	// the limiter.
	RateLimitPerMinute int
}

// RedisConfig carries connection settings for the rate limiter backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:               envOr("VERIDENT_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("VERIDENT_DATABASE_URL"),
		FaceServiceURL:     envOr("VERIDENT_FACE_SERVICE_URL", "http://localhost:5001"),
		KafkaTopic:         envOr("VERIDENT_KAFKA_TOPIC", "verident.audit"),
		OCRLanguages:       splitList(envOr("VERIDENT_OCR_LANGUAGES", "spa,eng")),
		BranchTimeout:      envDuration("VERIDENT_BRANCH_TIMEOUT", 15*time.Second),
		RateLimitPerMinute: envInt("VERIDENT_RATE_LIMIT_PER_MINUTE", 0),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("VERIDENT_KAFKA_BROKERS"))
	cfg.Redis = RedisConfig{
		URL:          os.Getenv("VERIDENT_REDIS_URL"),
		PoolSize:     envInt("VERIDENT_REDIS_POOL_SIZE", 10),
		MinIdleConns: envInt("VERIDENT_REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  envDuration("VERIDENT_REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDuration("VERIDENT_REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDuration("VERIDENT_REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
