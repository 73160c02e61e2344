package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/srgjo27/venue_booking/internal/platform/database"
)

type Config struct {
	Env      string
	HTTPAddr string

	DB database.Config

	RedisHost string
	RedisPort string

	LockWaitTimeout   time.Duration
	LockTTL           time.Duration
	AdmissionAttempts int
	HoldTTL           time.Duration
	HoldSweepInterval time.Duration

	RateCardFile   string
	MigrateOnStart bool
}

// UseMemoryStore reports whether the process runs without Postgres and Redis.
func (c *Config) UseMemoryStore() bool {
	return c.DB.Host == "memory"
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// Load reads the optional env files and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DB: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "venue_booking"),
		},
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RateCardFile: getEnv("RATECARD_FILE", ""),
	}

	var err error
	if cfg.LockWaitTimeout, err = getDuration("LOCK_WAIT_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = getDuration("LOCK_TTL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HoldTTL, err = getDuration("HOLD_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HoldSweepInterval, err = getDuration("HOLD_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.AdmissionAttempts, err = getInt("ADMISSION_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, d)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, raw, err)
	}
	return b, nil
}
