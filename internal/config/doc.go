// Package config loads, normalizes, and validates trim-streams configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and deduplicates language allow-lists. The
// Config type centralizes every knob the CLI needs so downstream code
// receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
