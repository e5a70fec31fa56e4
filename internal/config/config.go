package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RetentionChoices is the closed set of recycle-bin retention periods an
// admin policy may select.
var RetentionChoices = []int{7, 15, 30}

// Config holds all configuration for the lifecycle engine.
type Config struct {
	// Server configuration
	ServerAddress  string
	ContextTimeout time.Duration

	// Database configuration
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	// Cache configuration
	CacheHost string
	CachePort string
	CachePass string
	CacheDB   int

	// Retention policy: days an admin-deleted article stays restorable.
	// Must be one of RetentionChoices.
	RetentionDays int

	// AuthorGraceDaysDefault applies when an author delete supplies no
	// grace period.
	AuthorGraceDaysDefault int

	// ViewDedupWindow suppresses repeat view counts from the same
	// (ip, article) pair.
	ViewDedupWindow time.Duration

	// LikeInflightTTL bounds how long a coalesced like/unlike result is
	// shared among duplicate callers.
	LikeInflightTTL time.Duration

	// FingerprintSalt feeds the anonymous like fingerprint hash.
	FingerprintSalt string

	// ThemeHints annotate rendered code blocks; purely cosmetic metadata.
	ThemeHints []string

	// SyncDir is the static-site source tree the frontend sync worker
	// exports published content into. Empty disables the worker.
	SyncDir string

	// PurgeSchedule is a cron expression for the hard-delete sweep.
	PurgeSchedule string
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress:          getEnv("SERVER_ADDRESS", ":9090"),
		ContextTimeout:         getEnvDuration("CONTEXT_TIMEOUT", 30*time.Second),
		DBHost:                 getEnv("DATABASE_HOST", "localhost"),
		DBPort:                 getEnv("DATABASE_PORT", "3306"),
		DBUser:                 getEnv("DATABASE_USER", "root"),
		DBPass:                 getEnv("DATABASE_PASS", ""),
		DBName:                 getEnv("DATABASE_NAME", "inkwell"),
		CacheHost:              getEnv("CACHE_HOST", "localhost"),
		CachePort:              getEnv("CACHE_PORT", "6379"),
		CachePass:              getEnv("CACHE_PASS", ""),
		CacheDB:                getEnvInt("CACHE_DB", 0),
		RetentionDays:          getEnvInt("RETENTION_DAYS", 7),
		AuthorGraceDaysDefault: getEnvInt("AUTHOR_GRACE_DAYS", 7),
		ViewDedupWindow:        getEnvDuration("VIEW_DEDUP_WINDOW", 10*time.Second),
		LikeInflightTTL:        getEnvDuration("LIKE_INFLIGHT_TTL", 3*time.Second),
		FingerprintSalt:        getEnv("FINGERPRINT_SALT", ""),
		ThemeHints:             getEnvList("THEME_HINTS"),
		SyncDir:                getEnv("FRONTEND_SYNC_DIR", ""),
		PurgeSchedule:          getEnv("PURGE_SCHEDULE", "@every 1h"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if c.DBHost == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}
	if c.FingerprintSalt == "" {
		return fmt.Errorf("FINGERPRINT_SALT is required")
	}
	if !validRetention(c.RetentionDays) {
		return fmt.Errorf("RETENTION_DAYS must be one of %v, got %d", RetentionChoices, c.RetentionDays)
	}
	if c.AuthorGraceDaysDefault < 1 || c.AuthorGraceDaysDefault > 30 {
		return fmt.Errorf("AUTHOR_GRACE_DAYS must be within 1..30, got %d", c.AuthorGraceDaysDefault)
	}
	if c.ViewDedupWindow <= 0 {
		return fmt.Errorf("VIEW_DEDUP_WINDOW must be positive")
	}
	if c.LikeInflightTTL <= 0 {
		return fmt.Errorf("LIKE_INFLIGHT_TTL must be positive")
	}
	return nil
}

func validRetention(days int) bool {
	for _, d := range RetentionChoices {
		if d == days {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
