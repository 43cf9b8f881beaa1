package backend

import (
	"fmt"

	"spendwise/internal/config"
	"spendwise/internal/kv"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// Result is an opened kv store and the function that closes it.
type Result struct {
	Store   kv.Store
	Cleanup CleanupFunc
}

// Config holds configuration for backend creation
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Type selects the kv adapter.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns every supported backend type.
func Types() []Type {
	return []Type{SQLiteBackend, MemoryBackend}
}

// TypeStrings returns every supported backend type as a string, for flag
// help and shell completion.
func TypeStrings() []string {
	types := Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg := Config{
		Type:         Type(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	return nil
}
