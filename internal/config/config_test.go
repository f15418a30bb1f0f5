package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/nmoreau/wordflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		SessionStaleMinutes: 30,
		SummaryBatchSize:    10,
		DueWordsLimit:       20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{
			name:  "invalid level",
			level: "INVALID",
		},
		{
			name:  "empty level",
			level: "",
		},
		{
			name:  "lowercase valid level",
			level: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestValidate_InvalidSessionStaleMinutes(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
	}{
		{
			name:    "zero",
			minutes: 0,
		},
		{
			name:    "negative",
			minutes: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.SessionStaleMinutes = tt.minutes

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "SESSION_STALE_MINUTES")
		})
	}
}

func TestValidate_InvalidSummaryBatchSize(t *testing.T) {
	cfg := validConfig()
	cfg.SummaryBatchSize = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_BATCH_SIZE")
}

func TestValidate_InvalidDueWordsLimit(t *testing.T) {
	cfg := validConfig()
	cfg.DueWordsLimit = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DUE_WORDS_LIMIT")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:                "",
		DBPath:              "",
		LogLevel:            "INVALID",
		SessionStaleMinutes: 0,
		SummaryBatchSize:    0,
		DueWordsLimit:       0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "SESSION_STALE_MINUTES")
	assert.Contains(t, errStr, "SUMMARY_BATCH_SIZE")
	assert.Contains(t, errStr, "DUE_WORDS_LIMIT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Save original values
	originalAddr := os.Getenv("ADDR")
	originalBatch := os.Getenv("SUMMARY_BATCH_SIZE")

	defer func() {
		if originalAddr != "" {
			os.Setenv("ADDR", originalAddr)
		} else {
			os.Unsetenv("ADDR")
		}
		if originalBatch != "" {
			os.Setenv("SUMMARY_BATCH_SIZE", originalBatch)
		} else {
			os.Unsetenv("SUMMARY_BATCH_SIZE")
		}
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("SUMMARY_BATCH_SIZE", "5")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5, cfg.SummaryBatchSize)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	original := os.Getenv("DUE_WORDS_LIMIT")
	defer func() {
		if original != "" {
			os.Setenv("DUE_WORDS_LIMIT", original)
		} else {
			os.Unsetenv("DUE_WORDS_LIMIT")
		}
	}()

	os.Setenv("DUE_WORDS_LIMIT", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, 20, cfg.DueWordsLimit)
}
