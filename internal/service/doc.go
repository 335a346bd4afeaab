// Package service contains the task and health use cases. Services depend on
// the store.TaskStore interface and small probe interfaces, never on a
// concrete backend, so the PostgreSQL and in-memory stores are interchangeable.
//
// Error handling:
//   - Expected conditions are returned as sentinel errors (ErrTaskNotFound)
//     or as the domain validation errors, unwrapped.
//   - Unexpected backend failures are wrapped in *TaskServiceError.
//   - The API layer maps these to HTTP status codes.
package service
