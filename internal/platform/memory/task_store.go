package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore keeps tasks in insertion order behind a read/write mutex.
// IDs come from a monotonic counter, so a deleted ID is never handed out again.
// Every task that crosses the API boundary is a copy.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []*domain.Task
	nextID int64
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		tasks:  make([]*domain.Task, 0),
		nextID: 1,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// CreateTask implements store.TaskStore.CreateTask
func (s *TaskStore) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	stored := task.Clone()
	stored.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, stored)
	s.mu.Unlock()

	log.Info("task created successfully", slog.Int64("task_id", stored.ID))
	return stored.Clone(), nil
}

// FindTask implements store.TaskStore.FindTask
func (s *TaskStore) FindTask(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks, nil
}

// FindTaskByIDs implements store.TaskStore.FindTaskByIDs
func (s *TaskStore) FindTaskByIDs(_ context.Context, ids []int64) ([]*domain.Task, error) {
	wanted := idSet(ids)

	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(wanted))
	for _, task := range s.tasks {
		if _, ok := wanted[task.ID]; ok {
			tasks = append(tasks, task.Clone())
		}
	}
	return tasks, nil
}

// DetailTask implements store.TaskStore.DetailTask
func (s *TaskStore) DetailTask(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task := s.find(id)
	if task == nil {
		logger.FromContextOrDefault(ctx, s.logger).
			Debug("task not found", slog.Int64("task_id", id))
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// UpdateTaskBulk implements store.TaskStore.UpdateTaskBulk
// Tasks are validated before any of them is written.
func (s *TaskStore) UpdateTaskBulk(ctx context.Context, tasks []*domain.Task) error {
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	updated := 0
	for _, task := range tasks {
		if stored := s.find(task.ID); stored != nil {
			store.PatchFromTask(task).Apply(stored)
			updated++
		}
	}
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("bulk task update completed",
		slog.Int("requested", len(tasks)),
		slog.Int("updated", updated))
	return nil
}

// UpdateTaskDetail implements store.TaskStore.UpdateTaskDetail
func (s *TaskStore) UpdateTaskDetail(
	ctx context.Context,
	id int64,
	patch store.TaskPatch,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.find(id)
	if stored == nil {
		return nil, store.ErrTaskNotFound
	}

	candidate := stored.Clone()
	patch.Apply(candidate)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	*stored = *candidate

	logger.FromContextOrDefault(ctx, s.logger).
		Info("task updated successfully", slog.Int64("task_id", id))
	return candidate.Clone(), nil
}

// DeleteTasks implements store.TaskStore.DeleteTasks
func (s *TaskStore) DeleteTasks(ctx context.Context, ids []int64) (bool, error) {
	doomed := idSet(ids)

	s.mu.Lock()
	before := len(s.tasks)
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if _, ok := doomed[task.ID]; !ok {
			kept = append(kept, task)
		}
	}
	// Drop references held by the tail of the reused backing array.
	for i := len(kept); i < before; i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
	removed := before - len(kept)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("tasks deleted",
		slog.Int("deleted", removed),
		slog.Int("requested", len(ids)))
	return removed > 0, nil
}

// Ping implements store.TaskStore.Ping. The in-memory store is always reachable.
func (s *TaskStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// find must be called with s.mu held.
func (s *TaskStore) find(id int64) *domain.Task {
	for _, task := range s.tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
