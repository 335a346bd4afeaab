package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// RegisterTaskInput carries the fields of a new task.
// Completed defaults to false when nil.
type RegisterTaskInput struct {
	Title       string
	Description string
	Completed   *bool
}

// UpdateTaskInput carries a partial task update. Title and Description are
// applied only when non-empty after trimming; Completed whenever non-nil.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// UpdateTaskBulkCompletedInput sets the completed flag on a set of tasks.
// Completed defaults to false when nil.
type UpdateTaskBulkCompletedInput struct {
	TaskIDs   []int64
	Completed *bool
}

// DeleteTaskBulkInput names the tasks to delete.
type DeleteTaskBulkInput struct {
	TaskIDs []int64
}

// TaskPage is one page of the task listing.
type TaskPage struct {
	Tasks      []*domain.Task
	TotalCount int
	Page       int
	Size       int
}

// TaskService provides task-related operations
type TaskService interface {
	// RegisterTask creates a new task.
	RegisterTask(ctx context.Context, input RegisterTaskInput) (*domain.Task, error)

	// FindTask returns every task.
	FindTask(ctx context.Context) ([]*domain.Task, error)

	// FindTaskPage returns the 1-based page of the task listing.
	FindTaskPage(ctx context.Context, page, size int) (*TaskPage, error)

	// DetailTaskByID returns a single task or ErrTaskNotFound.
	DetailTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTaskDetails merges input into the stored task.
	UpdateTaskDetails(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error)

	// UpdateTaskBulkCompleted sets completed on every existing task in the input.
	// Unknown IDs are ignored.
	UpdateTaskBulkCompleted(ctx context.Context, input UpdateTaskBulkCompletedInput) error

	// DeleteTaskBulk removes every existing task in the input.
	// Unknown IDs are ignored.
	DeleteTaskBulk(ctx context.Context, input DeleteTaskBulkInput) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService
// It returns an error if the store is nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// RegisterTask validates the draft and hands it to the store.
func (s *taskServiceImpl) RegisterTask(
	ctx context.Context,
	input RegisterTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	completed := false
	if input.Completed != nil {
		completed = *input.Completed
	}

	draft, err := domain.NewTask(input.Title, input.Description, completed)
	if err != nil {
		log.Debug("rejected task draft", "error", err)
		return nil, err
	}

	task, err := s.taskStore.CreateTask(ctx, draft)
	if err != nil {
		log.Error("failed to create task", "error", err)
		return nil, NewTaskServiceError("register_task", "failed to save task", err)
	}

	log.Info("task registered", "task_id", task.ID)
	return task, nil
}

// FindTask returns every task.
func (s *taskServiceImpl) FindTask(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindTask(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", "error", err)
		return nil, NewTaskServiceError("find_task", "failed to list tasks", err)
	}
	return tasks, nil
}

// FindTaskPage slices the full listing. A page past the end is empty.
func (s *taskServiceImpl) FindTaskPage(ctx context.Context, page, size int) (*TaskPage, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: page and size must be positive", domain.ErrValidation)
	}

	tasks, err := s.FindTask(ctx)
	if err != nil {
		return nil, err
	}

	total := len(tasks)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return &TaskPage{
		Tasks:      tasks[start:end],
		TotalCount: total,
		Page:       page,
		Size:       size,
	}, nil
}

// DetailTaskByID returns a single task.
func (s *taskServiceImpl) DetailTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskStore.DetailTask(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("failed to get task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("detail_task", "failed to get task", err)
	}
	return task, nil
}

// UpdateTaskDetails reads the task, merges input and persists the result.
func (s *taskServiceImpl) UpdateTaskDetails(
	ctx context.Context,
	id int64,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.taskStore.DetailTask(ctx, id)
	if err != nil {
		log.Debug("task lookup before update failed", "error", err, "task_id", id)
		return nil, NewTaskServiceError("update_task_details", "failed to get task", err)
	}

	merged := existing.Clone()
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		merged.Title = *input.Title
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		merged.Description = *input.Description
	}
	if input.Completed != nil {
		merged.Completed = *input.Completed
	}

	updated, err := s.taskStore.UpdateTaskDetail(ctx, id, store.PatchFromTask(merged))
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", id)
		return nil, NewTaskServiceError("update_task_details", "failed to update task", err)
	}

	log.Info("task updated", "task_id", id)
	return updated, nil
}

// UpdateTaskBulkCompleted sets completed on the tasks that exist. It is a
// no-op when none of the IDs match.
func (s *taskServiceImpl) UpdateTaskBulkCompleted(
	ctx context.Context,
	input UpdateTaskBulkCompletedInput,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids := uniqueIDs(input.TaskIDs)
	tasks, err := s.taskStore.FindTaskByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to find tasks for bulk update", "error", err)
		return NewTaskServiceError("update_task_bulk_completed", "failed to find tasks", err)
	}

	if len(tasks) == 0 {
		log.Info("no tasks matched bulk update", "requested", len(ids))
		return nil
	}

	completed := false
	if input.Completed != nil {
		completed = *input.Completed
	}
	for _, task := range tasks {
		task.Completed = completed
	}

	if err := s.taskStore.UpdateTaskBulk(ctx, tasks); err != nil {
		log.Error("failed to update tasks", "error", err, "count", len(tasks))
		return NewTaskServiceError("update_task_bulk_completed", "failed to update tasks", err)
	}

	log.Info("bulk completed update applied",
		"requested", len(ids),
		"updated", len(tasks),
		"completed", completed)
	return nil
}

// DeleteTaskBulk removes the tasks that exist. It is a no-op when none of the
// IDs match.
func (s *taskServiceImpl) DeleteTaskBulk(ctx context.Context, input DeleteTaskBulkInput) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids := uniqueIDs(input.TaskIDs)
	tasks, err := s.taskStore.FindTaskByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to find tasks for bulk delete", "error", err)
		return NewTaskServiceError("delete_task_bulk", "failed to find tasks", err)
	}

	if len(tasks) == 0 {
		log.Info("no tasks matched bulk delete", "requested", len(ids))
		return nil
	}

	existing := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		existing = append(existing, task.ID)
	}

	deleted, err := s.taskStore.DeleteTasks(ctx, existing)
	if err != nil {
		log.Error("failed to delete tasks", "error", err, "count", len(existing))
		return NewTaskServiceError("delete_task_bulk", "failed to delete tasks", err)
	}

	log.Info("bulk delete applied",
		"requested", len(ids),
		"deleted", len(existing),
		"removed", deleted)
	return nil
}

// uniqueIDs drops repeated IDs, keeping first-occurrence order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
