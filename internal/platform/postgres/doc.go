// Package postgres provides the PostgreSQL implementation of store.TaskStore,
// the embedded goose migrations that create its schema, and helpers that map
// driver errors onto the store package's sentinel errors.
package postgres
