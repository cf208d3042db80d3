package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marlowe/fabula/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Autosave.Delay != 2*time.Second {
		t.Errorf("delay = %v", cfg.Autosave.Delay)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth enabled by default")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("TEST_PLANNER_TOKEN", "hunter2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
app:
  http:
    port: 9090
store:
  driver: file
  path: ./vault
autosave:
  delay: 5s
auth:
  mode: token
  token: ${TEST_PLANNER_TOKEN}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Store.Driver != StoreDriverFile || cfg.Store.Path != "./vault" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Autosave.Delay != 5*time.Second {
		t.Errorf("delay = %v", cfg.Autosave.Delay)
	}
	if !cfg.Auth.AuthEnabled() || cfg.Auth.Token != "hunter2" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := NewDefaultConfig()
		cfg.App.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d accepted", port)
		}
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestEmptyDriverNormalizesToSQLite(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Driver = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
}

func TestValidateRejectsEmptyStorePath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty store path accepted")
	}
}

func TestValidateRejectsNegativeAutosaveDelay(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Autosave.Delay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative delay accepted")
	}
}

func TestTokenModeRequiresToken(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without token accepted")
	}

	cfg.Auth.Token = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("AuthEnabled = false in token mode")
	}
}

func TestEmptyAuthModeNormalizesToDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Auth.Mode != AuthModeDisabled || cfg.Auth.AuthEnabled() {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}
