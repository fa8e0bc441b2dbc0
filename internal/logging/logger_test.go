package logging_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lidscan/internal/config"
	"lidscan/internal/logging"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func TestNewJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
		RunID:       "run-42",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.NewComponentLogger(logger, "scanner").Info("sessions discovered", logging.Int("session_count", 2))
	logger.Debug("filtered out")

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("lines = %v", lines)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["component"] != "scanner" || entry["run_id"] != "run-42" || entry["level"] != "info" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("ts missing: %v", entry)
	}
	if entry["session_count"] != float64(2) {
		t.Fatalf("session_count = %v", entry["session_count"])
	}
}

func TestNewConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.NewComponentLogger(logger, "direct").Warn("lid not found", logging.String(logging.FieldSessionID, "sessionA"))

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("lines = %v", lines)
	}
	line := lines[0]
	for _, want := range []string{"WARN", "direct: lid not found", "session_id=sessionA"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, logPath, err := logging.NewFromConfig(&cfg, "abc", "")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if want := filepath.Join(cfg.Paths.LogDir, "lidscan-abc.log"); logPath != want {
		t.Fatalf("logPath = %q, want %q", logPath, want)
	}
	logger.Info("extraction started")

	lines := readLines(t, logPath)
	if len(lines) != 1 || !strings.Contains(lines[0], `"run_id":"abc"`) {
		t.Fatalf("lines = %v", lines)
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "info"

	logger, logPath, err := logging.NewFromConfig(&cfg, "lvl", "error")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Warn("suppressed")
	logger.Error("kept")

	lines := readLines(t, logPath)
	if len(lines) != 1 || !strings.Contains(lines[0], "kept") {
		t.Fatalf("lines = %v", lines)
	}
}

func TestWarnWithContextAddsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "session skipped", "session_skipped",
		logging.String(logging.FieldErrorHint, "custom hint"))

	var entry map[string]any
	lines := readLines(t, path)
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["event_type"] != "session_skipped" || entry["error_hint"] != "custom hint" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["impact"] == nil || entry["impact"] == "" {
		t.Fatalf("impact default missing: %v", entry)
	}
}

func TestNilLoggerHelpersAreSafe(t *testing.T) {
	logging.WarnWithContext(nil, "x", "y")
	logging.ErrorWithContext(nil, "x", "y")
	logging.NewComponentLogger(nil, "c").Info("discarded")
}
