package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Type != "postgres" || cfg.Database.Driver != "pgx" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Cleanup.Enabled {
		t.Fatal("cleanup should be off by default")
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("database:\n  type: mysql\n  host: db.internal\n  port: \"3306\"\ncleanup:\n  enabled: true\n  retention_days: 5\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("CLEANUP_RETENTION_DAYS", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Type != "mysql" {
		t.Fatalf("yaml type not applied: %q", cfg.Database.Type)
	}
	if cfg.Database.Host != "override.internal" {
		t.Fatalf("env should win over yaml, got %q", cfg.Database.Host)
	}
	if !cfg.Cleanup.Enabled || cfg.Cleanup.RetentionDays != 9 {
		t.Fatalf("unexpected cleanup config: %+v", cfg.Cleanup)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("default addr lost: %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"DB_TYPE":                "oracle",
		"DB_DRIVER":              "odbc",
		"CLEANUP_RETENTION_DAYS": "zero",
		"CLEANUP_ENABLED":        "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(filepath.Join(dir, "none.yaml")); err == nil {
				t.Fatalf("%s=%s should fail", key, value)
			}
		})
	}
}

func TestLoadAuthFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme123")
	t.Setenv("TOKEN_TTL_HOURS", "12")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.AdminEmail != "ops@example.com" || cfg.Auth.AdminPassword != "changeme123" {
		t.Fatalf("admin bootstrap not read: %+v", cfg.Auth)
	}
	if cfg.Auth.TokenTTLHours != 12 {
		t.Fatalf("ttl = %d, want 12", cfg.Auth.TokenTTLHours)
	}

	t.Setenv("TOKEN_TTL_HOURS", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
