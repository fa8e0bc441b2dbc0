package testsupport

import (
	"path/filepath"
	"testing"

	"lidscan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// No relational store is reachable unless an option provides one.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SessionsDir = filepath.Join(base, "store")
	cfgVal.Paths.OutputFile = filepath.Join(base, "lid_data.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LocalDB = filepath.Join(base, "impossible.db")
	cfgVal.Store.LocalDB = cfgVal.Paths.LocalDB

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithContactFixture writes fixture to the config's local database path so the
// contact store opens it.
func WithContactFixture(fixture ContactFixture) ConfigOption {
	return func(b *configBuilder) {
		WriteContactDB(b.t, b.cfg.Paths.LocalDB, fixture)
	}
}

// WithStoreDisabled turns off the relational store entirely.
func WithStoreDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Disabled = true
	}
}

// WithWorkers overrides the scanner worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scanner.Workers = n
	}
}

// WithOutputFile overrides the snapshot path.
func WithOutputFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.OutputFile = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SessionsDir)
}
