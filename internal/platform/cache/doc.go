// Package cache wraps a Redis client with the small set of key/value
// operations the API needs: a health probe and idempotency key claims.
package cache
