package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/log"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Storage
	DataBackend  string
	SQLiteDBPath string
	StorageKey   string
	JournalKey   string

	// Session
	BaseCurrency string

	// Advice
	GeminiAPIKey string
	GeminiModel  string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendwise.db"),
		StorageKey:   getEnv("STORAGE_KEY", "expenses"),
		JournalKey:   getEnv("JOURNAL_KEY", "journal"),

		BaseCurrency: strings.ToUpper(getEnv("BASE_CURRENCY", "EUR")),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendwise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Base returns the configured base currency. Call Validate first.
func (c *Config) Base() core.Currency {
	cur, err := core.ParseCurrency(c.BaseCurrency)
	if err != nil {
		return core.EUR
	}
	return cur
}

// AdviceEnabled reports whether a Gemini key is configured.
func (c *Config) AdviceEnabled() bool { return c.GeminiAPIKey != "" }

// EventsEnabled reports whether expense events are published.
func (c *Config) EventsEnabled() bool { return c.AMQPURL != "" }

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}
	if strings.TrimSpace(c.JournalKey) == "" {
		errors = append(errors, "journal key cannot be empty")
	} else if c.JournalKey == c.StorageKey {
		errors = append(errors, fmt.Sprintf("journal key '%s' must differ from the storage key", c.JournalKey))
	}

	if _, err := core.ParseCurrency(c.BaseCurrency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be one of %v", c.BaseCurrency, core.Currencies()))
	}

	if c.GeminiAPIKey != "" && strings.TrimSpace(c.GeminiModel) == "" {
		errors = append(errors, "Gemini model cannot be empty when GEMINI_API_KEY is provided")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
