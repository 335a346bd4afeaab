// Package store defines the persistence contract for tasks. The interfaces
// here keep the service layer independent of whether tasks live in
// PostgreSQL or in process memory.
package store
