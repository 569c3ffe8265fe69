package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the storefront configuration.
type Config struct {
	Env                 string
	Port                string
	APIBaseURL          string
	RequestTimeout      time.Duration
	CartStorage         string
	SQLitePath          string
	RedisURL            string
	CartTTL             time.Duration
	SessionIdleTTL      time.Duration
	CouponRatePerMinute int
	CouponRateBurst     int
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
	// JWTSecret verifies bearer tokens sent directly to the storefront.
	// Empty disables the Authorization header.
	JWTSecret           string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "3000"),
		APIBaseURL:          strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		CartStorage:         strings.ToLower(getEnv("CART_STORAGE", "sqlite")),
		SQLitePath:          getEnv("SQLITE_PATH", "womart.db"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "WoMart/Storefront"),
		CloudWatchLogGroup:  os.Getenv("CLOUDWATCH_LOG_GROUP"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CouponRatePerMinute, err = getInt("COUPON_RATE_PER_MINUTE", 20); err != nil {
		return nil, err
	}
	if cfg.CouponRateBurst, err = getInt("COUPON_RATE_BURST", 5); err != nil {
		return nil, err
	}

	switch cfg.CartStorage {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("CART_STORAGE must be memory, sqlite or redis, got %q", cfg.CartStorage)
	}
	if cfg.CouponRatePerMinute < 1 || cfg.CouponRateBurst < 1 {
		return nil, fmt.Errorf("coupon rate limit must be positive")
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, val)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, val)
	}
	return n, nil
}
