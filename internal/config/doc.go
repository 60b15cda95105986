// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > environment variables >
// YAML config > Defaults. It covers the item generation settings
// (count, volume range, headcount, seed), the mode-change recompute variant and
// the HTTP server settings.
package config
