// Package config loads, normalizes, and validates NRI Assist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NRIASSIST_API_TOKEN and NRIASSIST_CHAT_URL. The Config type centralizes every
// knob the daemon and CLI need: where state lives, how the HTTP API binds,
// which remote chat and upload backends to call, how search behaves, and
// where transition events are published.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
