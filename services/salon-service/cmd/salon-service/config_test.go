package main

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:      8080,
		GRPCPort:  9090,
		JWTSecret: "0123456789abcdef",
		Timezone:  "Europe/London",
	}
}

func TestConfigValidate_OK(t *testing.T) {
	if err := validConfig().validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigValidate_CollectsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.JWTSecret = "short"
	cfg.AdminEmail = "admin@example.com"

	err := cfg.validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"PORT", "JWT_SECRET", "ADMIN_PASSWORD"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err.Error())
		}
	}
}

func TestConfigValidate_BadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus"
	if err := cfg.validate(); err == nil {
		t.Fatal("expected timezone error")
	}
	if cfg.location() != time.UTC {
		t.Fatal("expected UTC fallback")
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://palor@localhost/palor")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://palor.example")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.MigrateOnStart {
		t.Fatal("expected migrations on by default")
	}
}
