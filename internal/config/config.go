package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	SessionStaleMinutes int
	SummaryBatchSize    int
	DueWordsLimit       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:wordflash.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		SessionStaleMinutes: envIntOr("SESSION_STALE_MINUTES", 30),
		SummaryBatchSize:    envIntOr("SUMMARY_BATCH_SIZE", 10),
		DueWordsLimit:       envIntOr("DUE_WORDS_LIMIT", 20),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.SessionStaleMinutes < 1 {
		problems = append(problems, "SESSION_STALE_MINUTES must be at least 1")
	}
	if c.SummaryBatchSize < 1 {
		problems = append(problems, "SUMMARY_BATCH_SIZE must be at least 1")
	}
	if c.DueWordsLimit < 1 {
		problems = append(problems, "DUE_WORDS_LIMIT must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
