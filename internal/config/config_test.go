package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lidscan/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LIDSCAN_SESSIONS_DIR", "")
	t.Setenv("LIDSCAN_OUTPUT_FILE", "")
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "lidscan", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if want := filepath.Join(cwd, "store"); cfg.Paths.SessionsDir != want {
		t.Fatalf("sessions dir = %q, want %q", cfg.Paths.SessionsDir, want)
	}
	if want := filepath.Join(cwd, "lid_data.json"); cfg.Paths.OutputFile != want {
		t.Fatalf("output file = %q, want %q", cfg.Paths.OutputFile, want)
	}
	if want := filepath.Join(home, ".local", "share", "lidscan", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("log dir = %q, want %q", cfg.Paths.LogDir, want)
	}
	if cfg.Store.LocalDB != cfg.Paths.LocalDB || !strings.HasSuffix(cfg.Store.LocalDB, "impossible.db") {
		t.Fatalf("local db = %q / %q", cfg.Store.LocalDB, cfg.Paths.LocalDB)
	}
	if cfg.Resolver.LIDMinDigits != 13 || cfg.Resolver.AlternateServer != "lid" || cfg.Resolver.UnknownPlatform != "Unknown" {
		t.Fatalf("unexpected resolver defaults: %+v", cfg.Resolver)
	}
	if cfg.Store.URL != "" {
		t.Fatalf("store url = %q", cfg.Store.URL)
	}
	if cfg.RunTimeout().Seconds() != 30 {
		t.Fatalf("run timeout = %v", cfg.RunTimeout())
	}
	if cfg.Store.ConnectTimeout().Seconds() != 10 || cfg.Store.QueryTimeout().Seconds() != 5 {
		t.Fatalf("store timeouts = %v / %v", cfg.Store.ConnectTimeout(), cfg.Store.QueryTimeout())
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	isolateEnv(t)
	base := t.TempDir()
	t.Setenv("DATABASE_URL", "postgres://bot@db/whatsmeow")
	t.Setenv("LIDSCAN_SESSIONS_DIR", filepath.Join(base, "sessions"))
	t.Setenv("LIDSCAN_OUTPUT_FILE", filepath.Join(base, "out.json"))

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.URL != "postgres://bot@db/whatsmeow" {
		t.Fatalf("store url = %q", cfg.Store.URL)
	}
	if cfg.Paths.SessionsDir != filepath.Join(base, "sessions") {
		t.Fatalf("sessions dir = %q", cfg.Paths.SessionsDir)
	}
	if cfg.Paths.OutputFile != filepath.Join(base, "out.json") {
		t.Fatalf("output file = %q", cfg.Paths.OutputFile)
	}
}

func TestLoadCustomFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_URL", "postgres://ignored@db/x")
	dir := t.TempDir()
	path := filepath.Join(dir, "lidscan.toml")

	custom := map[string]any{
		"paths": map[string]any{
			"sessions_dir": filepath.Join(dir, "sessions"),
			"output_file":  filepath.Join(dir, "out", "lid_data.json"),
			"log_dir":      filepath.Join(dir, "logs"),
		},
		"resolver": map[string]any{
			"lid_min_digits":   12,
			"alternate_server": "@LID",
		},
		"store": map[string]any{
			"url":     "postgres://bot@db/whatsmeow",
			"sslmode": "Require",
		},
		"scanner": map[string]any{
			"credentials_file": "nested/auth.json",
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Resolver.LIDMinDigits != 12 || cfg.Resolver.AlternateServer != "lid" {
		t.Fatalf("resolver = %+v", cfg.Resolver)
	}
	if cfg.Store.URL != "postgres://bot@db/whatsmeow" {
		t.Fatalf("file url should win over env, got %q", cfg.Store.URL)
	}
	if cfg.Store.SSLMode != "require" {
		t.Fatalf("sslmode = %q", cfg.Store.SSLMode)
	}
	if cfg.Scanner.CredentialsFile != "auth.json" {
		t.Fatalf("credentials file = %q", cfg.Scanner.CredentialsFile)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging format = %q", cfg.Logging.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.OutputFile)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad sslmode", "[store]\nsslmode = \"sometimes\"\n", "store.sslmode"},
		{"negative workers", "[scanner]\nworkers = -1\n", "scanner.workers"},
		{"negative timeout", "[run]\ntimeout_seconds = -5\n", "run.timeout_seconds"},
		{"negative min digits", "[resolver]\nlid_min_digits = -1\n", "resolver.lid_min_digits"},
		{"negative query timeout", "[store]\nquery_timeout_seconds = -1\n", "store.query_timeout_seconds"},
		{"bad toml", "[store\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample not found")
	}
	defaults := config.Default()
	if cfg.Scanner.Workers != defaults.Scanner.Workers || cfg.Resolver.LIDMinDigits != defaults.Resolver.LIDMinDigits {
		t.Fatalf("sample diverges from defaults: %+v", cfg)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := isolateEnv(t)
	got, err := config.ExpandPath("~/data/store")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if want := filepath.Join(home, "data", "store"); got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path expanded to %q", got)
	}
}
