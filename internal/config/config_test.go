package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
  tick_interval: 500ms
redis:
  addr: localhost:6379
  ttl: 15m
postgres:
  url: postgres://assessment@localhost/assessments
results:
  driver: sqlite
  sqlite_path: /tmp/results.db
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ResultsDriver() != ResultsSQLite || cfg.Results.SQLitePath != "/tmp/results.db" {
		t.Fatalf("unexpected results config: %+v", cfg.Results)
	}
	if got := TTLDuration(cfg.Server.TickInterval, time.Second); got != 500*time.Millisecond {
		t.Fatalf("expected 500ms tick, got %s", got)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ResultsDriver() != ResultsMemory {
		t.Fatalf("expected memory results by default, got %s", cfg.ResultsDriver())
	}
}

func TestResultsDriverDefaultsToPostgresWhenConfigured(t *testing.T) {
	var cfg Config
	cfg.Postgres.URL = "postgres://localhost/db"
	if cfg.ResultsDriver() != ResultsPostgres {
		t.Fatalf("expected postgres, got %s", cfg.ResultsDriver())
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("not-a-duration", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %s", got)
	}
}
