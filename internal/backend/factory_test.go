package backend

import (
	"context"
	"path/filepath"
	"testing"

	"spendwise/internal/config"
	"spendwise/internal/kv/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		want    Type
		wantErr bool
	}{
		{"nil config", nil, "", true},
		{"memory", &config.Config{DataBackend: "memory"}, MemoryBackend, false},
		{"sqlite", &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db"}, SQLiteBackend, false},
		{"sqlite without path", &config.Config{DataBackend: "sqlite"}, "", true},
		{"unknown", &config.Config{DataBackend: "sheets"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAppConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Type != tt.want {
				t.Errorf("Type = %q, want %q", got.Type, tt.want)
			}
		})
	}
}

func TestCreateMemory(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).Create(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := res.Store.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
}

func TestCreateSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "spendwise.db")
	res, err := NewFactory(nil).Create(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*sqlite.Store); !ok {
		t.Fatalf("expected *sqlite.Store, got %T", res.Store)
	}
}

func TestCreateInvalid(t *testing.T) {
	if _, err := NewFactory(nil).Create(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestTypeStrings(t *testing.T) {
	got := TypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Fatalf("TypeStrings() = %v", got)
	}
}
