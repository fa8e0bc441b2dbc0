package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes body to path, creating parent directories.
func WriteFile(t testing.TB, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSession writes a credential file for sessionID under root and returns
// its path.
func WriteSession(t testing.TB, root, sessionID, body string) string {
	t.Helper()

	path := filepath.Join(root, sessionID, "creds.json")
	WriteFile(t, path, body)
	return path
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
