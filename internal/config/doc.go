// Package config loads, validates, and defaults the TOML configuration
// shared by the reclaim daemon and CLI.
package config
