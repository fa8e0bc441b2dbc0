// Package config loads, normalizes, and validates lidscan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DATABASE_URL. The Config type centralizes every knob the scanner, the
// contact store, and the CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, positive timeouts, and clear validation errors.
package config
