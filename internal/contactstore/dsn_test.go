package contactstore

import "testing"

func TestWithSSLMode(t *testing.T) {
	tests := []struct {
		dsn  string
		mode string
		want string
	}{
		{"postgres://u@h/db", "require", "postgres://u@h/db?sslmode=require"},
		{"postgres://u@h/db?sslmode=disable", "require", "postgres://u@h/db?sslmode=disable"},
		{"host=h dbname=db", "require", "host=h dbname=db"},
		{"postgres://u@h/db", "", "postgres://u@h/db"},
	}
	for _, tt := range tests {
		if got := withSSLMode(tt.dsn, tt.mode); got != tt.want {
			t.Errorf("withSSLMode(%q, %q) = %q, want %q", tt.dsn, tt.mode, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	if got := redact(DriverPostgres, "postgres://user:secret@h/db"); got != "postgres://user:xxxxx@h/db" {
		t.Fatalf("redact = %q", got)
	}
	if got := redact(DriverPostgres, "host=h password=secret"); got != DriverPostgres {
		t.Fatalf("redact key/value = %q", got)
	}
	if got := redact(DriverSQLite, "/tmp/x.db"); got != "/tmp/x.db" {
		t.Fatalf("redact sqlite = %q", got)
	}
}
