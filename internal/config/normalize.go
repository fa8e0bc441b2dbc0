package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeStore()
	c.normalizeScanner()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("LIDSCAN_SESSIONS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.SessionsDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("LIDSCAN_OUTPUT_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputFile = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.SessionsDir) == "" {
		c.Paths.SessionsDir = defaultSessionsDir
	}
	if c.Paths.SessionsDir, err = expandPath(c.Paths.SessionsDir); err != nil {
		return fmt.Errorf("paths.sessions_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = defaultOutputFile
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LocalDB, err = expandPath(strings.TrimSpace(c.Paths.LocalDB)); err != nil {
		return fmt.Errorf("paths.local_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	if c.Resolver.LIDMinDigits == 0 {
		c.Resolver.LIDMinDigits = defaultLIDMinDigits
	}
	server := strings.ToLower(strings.TrimSpace(c.Resolver.AlternateServer))
	c.Resolver.AlternateServer = strings.TrimPrefix(server, "@")
	c.Resolver.UnknownPlatform = strings.TrimSpace(c.Resolver.UnknownPlatform)
	if c.Resolver.UnknownPlatform == "" {
		c.Resolver.UnknownPlatform = defaultUnknownPlatform
	}
}

func (c *Config) normalizeStore() {
	c.Store.URL = strings.TrimSpace(c.Store.URL)
	if c.Store.URL == "" {
		if value, ok := os.LookupEnv("DATABASE_URL"); ok {
			c.Store.URL = strings.TrimSpace(value)
		}
	}
	c.Store.SSLMode = strings.ToLower(strings.TrimSpace(c.Store.SSLMode))
	if c.Store.SSLMode == "" {
		c.Store.SSLMode = defaultSSLMode
	}
	if c.Store.ConnectTimeoutSeconds == 0 {
		c.Store.ConnectTimeoutSeconds = defaultConnectTimeout
	}
	if c.Store.QueryTimeoutSeconds == 0 {
		c.Store.QueryTimeoutSeconds = defaultQueryTimeout
	}
	c.Store.LocalDB = c.Paths.LocalDB
}

func (c *Config) normalizeScanner() {
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = defaultScannerWorkers
	}
	c.Scanner.CredentialsFile = filepath.Base(strings.TrimSpace(c.Scanner.CredentialsFile))
	if c.Scanner.CredentialsFile == "" || c.Scanner.CredentialsFile == "." {
		c.Scanner.CredentialsFile = defaultCredentialsFile
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
