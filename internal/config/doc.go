// Package config loads, normalizes, and validates mangadoctor
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the
// catalog location, the default extension identifier for lookups, and
// output/logging knobs.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
