// Package config loads and validates application configuration from
// environment variables and an optional config file, giving the rest of
// the application type-safe access to its settings.
package config
