package config

import (
	"errors"
	"fmt"
)

var validSSLModes = map[string]struct{}{
	"disable":     {},
	"allow":       {},
	"prefer":      {},
	"require":     {},
	"verify-ca":   {},
	"verify-full": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"scanner.workers":     c.Scanner.Workers,
		"run.timeout_seconds": c.Run.TimeoutSeconds,
	})
}

func (c *Config) validatePaths() error {
	if c.Paths.SessionsDir == "" {
		return errors.New("paths.sessions_dir must be set")
	}
	if c.Paths.OutputFile == "" {
		return errors.New("paths.output_file must be set")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.LIDMinDigits < 1 {
		return errors.New("resolver.lid_min_digits must be positive")
	}
	if c.Resolver.AlternateServer == "" {
		return errors.New("resolver.alternate_server must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	if _, ok := validSSLModes[c.Store.SSLMode]; !ok {
		return fmt.Errorf("store.sslmode: unsupported value %q", c.Store.SSLMode)
	}
	return ensurePositiveMap(map[string]int{
		"store.connect_timeout_seconds": c.Store.ConnectTimeoutSeconds,
		"store.query_timeout_seconds":   c.Store.QueryTimeoutSeconds,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
