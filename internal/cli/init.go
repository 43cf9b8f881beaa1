// Package cli provides the start-up steps shared by cmd/spendwise,
// cmd/spendwise-cli and cmd/spendwise-journal.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"spendwise/internal/advice"
	"spendwise/internal/backend"
	"spendwise/internal/config"
	"spendwise/internal/log"
	"spendwise/internal/store"

	"github.com/joho/godotenv"
)

// SetupLogger builds the process logger from LOG_LEVEL and installs it as
// the slog default. Unknown levels fall back to info.
func SetupLogger(component string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	cfg.Output = out
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		cfg.Level = level
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(ctx context.Context, logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(ctx, "Configuration validation failed", log.FieldError, err)
	}
	return cfg
}

// OpenBackend opens the configured kv store or exits the process.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.Result {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Fatal(ctx, "Invalid backend configuration", log.FieldError, err)
	}
	res, err := backend.NewFactory(logger.Slog()).Create(ctx, bcfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to open storage backend", log.FieldError, err, "backend", bcfg.Type)
	}
	return res
}

// OpenStore wraps the backend in an expense store and loads it.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config, res *backend.Result, opts ...store.Option) *store.Store {
	base := []store.Option{
		store.WithKey(cfg.StorageKey),
		store.WithLogger(logger.WithComponent(log.ComponentStore).Slog()),
	}
	st := store.New(res.Store, append(base, opts...)...)
	st.Load(ctx)
	return st
}

// NewAdvisor returns the Gemini advisor, or the unavailable one when no key
// is configured or the client cannot be created.
func NewAdvisor(ctx context.Context, logger *log.Logger, cfg *config.Config) advice.Advisor {
	alog := logger.WithComponent(log.ComponentAdvice)
	if !cfg.AdviceEnabled() {
		alog.InfoContext(ctx, "GEMINI_API_KEY not set, financial advice disabled")
		return advice.Unavailable{}
	}
	adv, err := advice.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, alog.Slog())
	if err != nil {
		alog.WarnContext(ctx, "Failed to create Gemini client, financial advice disabled", log.FieldError, err)
		return advice.Unavailable{}
	}
	alog.InfoContext(ctx, "Financial advice enabled", "model", adv.Model())
	return adv
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
