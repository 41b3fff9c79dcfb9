package database

import (
	"path/filepath"
	"strings"
	"testing"

	"cashbook/internal/config"
	"cashbook/internal/models"
)

func TestConfigURLs(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver:   "postgres",
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "cashbook",
		DBSSLMode:  "disable",
	})

	if got := cfg.URL(); got != "postgres://u:p@db:5432/cashbook?sslmode=disable" {
		t.Errorf("unexpected URL %s", got)
	}
	if !strings.Contains(cfg.DSN(), "dbname=cashbook") {
		t.Errorf("unexpected DSN %s", cfg.DSN())
	}
	if cfg.SourceURL() != "file://migrations" {
		t.Errorf("unexpected source %s", cfg.SourceURL())
	}
}

func TestNewManager(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		if _, err := NewManager(&Config{Driver: "oracle"}); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})

	t.Run("sqlite schema from models", func(t *testing.T) {
		m, err := NewManager(&Config{
			Driver:     DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "cashbook.db"),
		})
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		defer m.Close()

		if err := m.Migrate(); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		for _, model := range models.All() {
			if !m.DB().Migrator().HasTable(model) {
				t.Errorf("expected table for %T", model)
			}
		}
	})
}
