package preflight

import (
	"context"
	"path/filepath"

	"lidscan/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check applicable to cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckSessions(cfg.Paths.SessionsDir, cfg.Scanner.CredentialsFile),
		CheckDirectoryAccess("Snapshot directory", filepath.Dir(cfg.Paths.OutputFile), AccessReadWrite),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, AccessReadWrite))
	}
	results = append(results, CheckContactStore(ctx, cfg.Store))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
