package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskPatch carries a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply copies the non-nil patch fields onto task. The ID is never touched.
func (p TaskPatch) Apply(task *domain.Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
}

// PatchFromTask builds a patch that overwrites every mutable field with the
// values held by task.
func PatchFromTask(task *domain.Task) TaskPatch {
	title := task.Title
	description := task.Description
	completed := task.Completed
	return TaskPatch{Title: &title, Description: &description, Completed: &completed}
}

// TaskStore defines the interface for task persistence. It is implemented by
// the PostgreSQL store and by the volatile in-memory store, and the two are
// interchangeable behind it.
type TaskStore interface {
	// CreateTask saves a new task and returns it with its assigned ID.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTask returns every task, ordered by ID.
	FindTask(ctx context.Context) ([]*domain.Task, error)

	// FindTaskByIDs returns the tasks whose ID is in ids.
	// Returns an empty slice if none match.
	FindTaskByIDs(ctx context.Context, ids []int64) ([]*domain.Task, error)

	// DetailTask retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	DetailTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTaskBulk overwrites every given task, matched by ID.
	// Tasks whose ID does not exist are ignored.
	UpdateTaskBulk(ctx context.Context, tasks []*domain.Task) error

	// UpdateTaskDetail applies patch to the task with the given ID and
	// returns the updated record.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateTaskDetail(ctx context.Context, id int64, patch TaskPatch) (*domain.Task, error)

	// DeleteTasks removes every task whose ID is in ids.
	// Returns true if at least one task was removed.
	DeleteTasks(ctx context.Context, ids []int64) (bool, error)

	// Ping verifies that the backend is reachable.
	Ping(ctx context.Context) error
}
