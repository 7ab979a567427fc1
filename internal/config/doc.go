// Package config loads, normalizes, and validates minutes configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY and MINUTES_SMTP_PASSWORD. The Config type centralizes
// every knob the CLI needs, so the session database location, completion
// provider, and mail transport are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical transport names, and clear validation errors.
package config
