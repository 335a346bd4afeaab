// Package config handles configuration loading, parsing, and validation
// from environment variables (prefixed with TASKAPI_) and an optional
// config.yaml. It provides type-safe access to the server, database, cache
// and rate limiter settings.
package config
