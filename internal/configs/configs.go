package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// RateLimitWindow is the window RATE_LIMIT_PER_MINUTE applies to.
const RateLimitWindow = time.Minute

type Config struct {
	AppURL                   string
	StoreDriver              string
	DatabaseDSN              string
	RateLimit                int
	RateLimitBackend         string
	RedisAddr                string
	RedisKeyPrefix           string
	ViewIdleTimeoutMinutes   int
	ViewSweepIntervalSeconds int
	ShutdownTimeoutSeconds   int
	DisplayTimezone          string
	LogLevel                 string
	LogFormat                string
}

func Load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	var errs []error
	getInt := func(key string, defaultVal int) int {
		v, err := getEnvAsInt(key, defaultVal)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := Config{
		AppURL:                   fmt.Sprintf("%s:%s", appHost, appPort),
		StoreDriver:              strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		DatabaseDSN:              getEnv("DATABASE_DSN", "file::memory:?cache=shared"),
		RateLimit:                getInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBackend:         strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		RedisAddr:                fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:           getEnv("REDIS_KEY_PREFIX", "priority_tasks:ratelimit:"),
		ViewIdleTimeoutMinutes:   getInt("VIEW_IDLE_TIMEOUT_MINUTES", 30),
		ViewSweepIntervalSeconds: getInt("VIEW_SWEEP_INTERVAL_SECONDS", 60),
		ShutdownTimeoutSeconds:   getInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		DisplayTimezone:          getEnv("DISPLAY_TIMEZONE", "Local"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFormat:                strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) ViewIdleTimeout() time.Duration {
	return time.Duration(c.ViewIdleTimeoutMinutes) * time.Minute
}

func (c Config) ViewSweepInterval() time.Duration {
	return time.Duration(c.ViewSweepIntervalSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.DisplayTimezone)
}

func validate(cfg Config) error {
	switch cfg.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverSQLite:
		if !IsInMemoryDSN(cfg.DatabaseDSN) {
			return errors.New("DATABASE_DSN must point to an in-memory sqlite database (mode=memory or :memory:)")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverMemory, StoreDriverSQLite)
	}
	switch cfg.RateLimitBackend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q", RateLimitBackendMemory, RateLimitBackendRedis)
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ViewIdleTimeoutMinutes <= 0 {
		return errors.New("VIEW_IDLE_TIMEOUT_MINUTES must be greater than 0")
	}
	if cfg.ViewSweepIntervalSeconds <= 0 {
		return errors.New("VIEW_SWEEP_INTERVAL_SECONDS must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return errors.New(`LOG_FORMAT must be "text" or "json"`)
	}
	return nil
}

// IsInMemoryDSN reports whether dsn names a sqlite database that lives only
// as long as the process.
func IsInMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}
