package config

import (
	"testing"
	"time"
)

func TestLoad_ReportsMissingRequired(t *testing.T) {
	// Ensure a clean env by not setting anything and calling validation directly.
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "production", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "activity", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "activity", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Session.CookieName != "sessionid" {
		t.Fatalf("expected default cookie name, got %q", c.Session.CookieName)
	}
	if c.Session.TTL != DefaultSessionTTL {
		t.Fatalf("expected default session TTL, got %v", c.Session.TTL)
	}
	if c.Intake.SuccessStatus != 201 {
		t.Fatalf("expected default success status 201, got %d", c.Intake.SuccessStatus)
	}
}

func TestValidate_SuccessStatusVariants(t *testing.T) {
	base := func() Config {
		return Config{
			App:   AppConfig{Env: "local", Port: 8080},
			DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "activity"},
			Redis: RedisConfig{Host: "localhost", Port: 6379},
		}
	}

	c := base()
	c.Intake.SuccessStatus = 204
	if err := c.Validate(); err != nil {
		t.Fatalf("204 should be accepted: %v", err)
	}

	c = base()
	c.Intake.SuccessStatus = 200
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unsupported success status")
	}
}

func TestValidate_AnonymousOnlyNeedsNoJWTConfig(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "production", Port: 8080},
		DB:    DBConfig{Host: "db", Port: 5432, User: "postgres", Name: "activity", SSLMode: "require"},
		Redis: RedisConfig{Host: "redis", Port: 6379},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without JWT_SECRET, got %v", err)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected default access TTL, got %v", c.Auth.AccessTokenTTL)
	}
}
