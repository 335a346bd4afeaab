// Package middleware provides the HTTP middleware of the task API: trace IDs
// with request-scoped loggers, Prometheus request metrics and idempotency
// keys for creates.
package middleware
