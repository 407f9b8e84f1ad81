// Package config loads and validates the TOML configuration for reel.
//
// Configuration is optional: every field has a working default, so the
// application runs with no config file at all. When present the file is
// resolved from an explicit --config path, then ~/.config/reel/config.toml,
// then ./reel.toml. Loaded values are normalized (tilde expansion, trimmed
// strings, env var fallbacks) before validation.
package config
