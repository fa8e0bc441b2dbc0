package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lidscan/internal/config"
	"lidscan/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LIDSCAN_SESSIONS_DIR", "")
	t.Setenv("LIDSCAN_OUTPUT_FILE", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsessions_dir = %q\noutput_file = %q\nlog_dir = %q\nlocal_db = %q\n\n[store]\ndisabled = %t\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.SessionsDir,
		cfg.Paths.OutputFile,
		cfg.Paths.LogDir,
		cfg.Paths.LocalDB,
		cfg.Store.Disabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	exitErr, ok := err.(*exitCodeError)
	if !ok {
		t.Fatalf("expected exit code %d, got error %v", code, err)
	}
	if exitErr.code != code {
		t.Fatalf("exit code = %d, want %d (%v)", exitErr.code, code, exitErr.err)
	}
}
