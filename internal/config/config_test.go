package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
)

func writeSettings(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config.yaml: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.ServerURLEnv, "")
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.ServerURL != config.DefaultServerURL {
		t.Errorf("expected default server url, got %q", cfg.ServerURL)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.FetchDebounce != 100*time.Millisecond {
		t.Errorf("expected 100ms debounce, got %v", cfg.FetchDebounce)
	}
	if !cfg.RollbackOnFailure {
		t.Error("expected rollback enabled by default")
	}
}

func TestNew_ReadsSettingsFile(t *testing.T) {
	t.Setenv(config.ServerURLEnv, "")
	dir := t.TempDir()
	writeSettings(t, dir, `
server_url: https://tasks.example.com
timeout: 2s
fetch_debounce: 250ms
rollback_on_failure: false
`)

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "https://tasks.example.com" {
		t.Errorf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.FetchDebounce != 250*time.Millisecond {
		t.Errorf("unexpected debounce %v", cfg.FetchDebounce)
	}
	if cfg.RollbackOnFailure {
		t.Error("expected rollback disabled")
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "server_url: https://file.example.com\n")
	t.Setenv(config.ServerURLEnv, "https://env.example.com")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "https://env.example.com" {
		t.Errorf("expected env override, got %q", cfg.ServerURL)
	}
}

func TestNew_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server_url: [unterminated\n"},
		{"bad timeout", "timeout: soon\n"},
		{"zero timeout", "timeout: 0s\n"},
		{"negative debounce", "fetch_debounce: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.body)
			if _, err := config.New(dir); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", config.AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestToken_SaveLoadRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &config.Config{Dir: dir}

	if cfg.HasToken() {
		t.Fatal("expected no token before save")
	}

	if err := cfg.SaveToken(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	tok, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("unexpected access token %q", tok.AccessToken)
	}

	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if cfg.HasToken() {
		t.Error("expected token removed")
	}
}

func TestLoadToken_Empty(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"token_type":"Bearer"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.LoadToken(); err == nil {
		t.Error("expected error for empty access token")
	}
}
