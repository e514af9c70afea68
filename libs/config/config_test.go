package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testSpec struct {
	Port    int           `envconfig:"SVC_PORT" default:"8080"`
	Name    string        `envconfig:"SVC_NAME" required:"true"`
	Timeout time.Duration `envconfig:"SVC_TIMEOUT" default:"3s"`
	Origins []string      `envconfig:"SVC_ORIGINS"`
}

func TestLoad_EnvAndDefaults(t *testing.T) {
	t.Setenv("PALORTEST_SVC_NAME", "salon")
	t.Setenv("PALORTEST_SVC_ORIGINS", "http://a.test,http://b.test")

	var spec testSpec
	if err := Load("PALORTEST", &spec, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if spec.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", spec.Port)
	}
	if spec.Name != "salon" {
		t.Fatalf("expected name salon, got %q", spec.Name)
	}
	if spec.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", spec.Timeout)
	}
	if len(spec.Origins) != 2 {
		t.Fatalf("expected 2 origins, got %v", spec.Origins)
	}
}

func TestLoad_DotenvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("PALORDOT_SVC_NAME=from-file\nPALORDOT_SVC_PORT=9000\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PALORDOT_SVC_NAME", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("PALORDOT_SVC_PORT") })

	var spec testSpec
	if err := Load("PALORDOT", &spec, path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if spec.Name != "from-env" {
		t.Fatalf("expected env to win, got %q", spec.Name)
	}
	if spec.Port != 9000 {
		t.Fatalf("expected port from file, got %d", spec.Port)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	var spec testSpec
	if err := Load("PALORMISSING", &spec, filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Fatal("expected error for missing required SVC_NAME")
	}
}

func TestBool(t *testing.T) {
	t.Setenv("PALOR_FLAG", "off")
	if Bool("PALOR_FLAG", true) {
		t.Fatal("expected off to be false")
	}
	t.Setenv("PALOR_FLAG", "yes")
	if !Bool("PALOR_FLAG", false) {
		t.Fatal("expected yes to be true")
	}
	if !Bool("PALOR_FLAG_UNSET", true) {
		t.Fatal("expected fallback")
	}
}

func TestValidatePort(t *testing.T) {
	if err := ValidatePort("PORT", 0); err == nil {
		t.Fatal("expected error for port 0")
	}
	if err := ValidatePort("PORT", 8080); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
