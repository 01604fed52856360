package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.DatabaseDriver)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("expected 24h token duration, got %s", cfg.TokenDuration)
	}
	if !cfg.SessionCookieEnabled {
		t.Error("expected session cookie fallback to be enabled by default")
	}
	if cfg.DBMaxOpenConns != 10 {
		t.Errorf("expected pool size 10, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.DiscordLoginEnabled() {
		t.Error("expected discord login to be disabled without credentials")
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION", "2h")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("SESSION_COOKIE_ENABLED", "false")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/eventhub?sslmode=disable")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Errorf("expected 2h, got %s", cfg.TokenDuration)
	}
	if cfg.DBMaxOpenConns != 3 {
		t.Errorf("expected 3 connections, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.SessionCookieEnabled {
		t.Error("expected session cookie fallback to be disabled")
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Errorf("expected normalized postgres driver, got %s", cfg.DatabaseDriver)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseDriver: DriverSQLite,
			DatabasePath:   ":memory:",
			DBMaxOpenConns: 1,
			JWTSecret:      "secret",
			TokenDuration:  time.Hour,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"UnknownDriver", func(c *Config) { c.DatabaseDriver = "oracle" }},
		{"PostgresWithoutURL", func(c *Config) { c.DatabaseDriver = DriverPostgres }},
		{"EmptySQLitePath", func(c *Config) { c.DatabasePath = " " }},
		{"ZeroPool", func(c *Config) { c.DBMaxOpenConns = 0 }},
		{"NegativeIdle", func(c *Config) { c.DBMaxIdleConns = -1 }},
		{"ZeroTokenDuration", func(c *Config) { c.TokenDuration = 0 }},
		{"EmptySecret", func(c *Config) { c.JWTSecret = "" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
