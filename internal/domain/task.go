package domain

import (
	"fmt"
	"strings"
)

// Validation errors for Task
var (
	ErrEmptyTaskTitle = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrNegativeTaskID = fmt.Errorf("%w: task ID cannot be negative", ErrInvalidID)
)

// Task is a single to-do item. An ID of zero means the task has not been
// persisted yet; stores assign the ID on creation and it never changes after.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// NewTask creates an unsaved task draft.
// Returns an error if validation fails.
func NewTask(title, description string, completed bool) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		Completed:   completed,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID < 0 {
		return ErrNegativeTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	return nil
}

// IsPersisted reports whether the task has been assigned an ID by a store.
func (t *Task) IsPersisted() bool {
	return t.ID > 0
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	copied := *t
	return &copied
}
