package main

import (
	"bytes"
	"strings"
	"testing"

	"lidscan/internal/extract"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Result", statusOK, "success (1 bot(s))", false)
	if !strings.Contains(line, "Result:") || !strings.Contains(line, "[OK] success (1 bot(s))") {
		t.Fatalf("line = %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("uncolored line contains escape codes: %q", line)
	}
	colored := renderStatusLine("Result", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored line = %q", colored)
	}
}

func TestRunStatusKind(t *testing.T) {
	tests := map[extract.Status]statusKind{
		extract.StatusSuccess: statusOK,
		extract.StatusEmpty:   statusWarn,
		extract.StatusFatal:   statusError,
	}
	for status, want := range tests {
		if got := runStatusKind(status); got != want {
			t.Errorf("runStatusKind(%v) = %v, want %v", status, got, want)
		}
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer must not be colorized")
	}
}
