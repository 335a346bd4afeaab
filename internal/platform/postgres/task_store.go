package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = "id, title, description, completed"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store that runs every query on tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateTask implements store.TaskStore.CreateTask
// It inserts the task and returns a copy carrying the ID assigned by the database.
func (s *PostgresTaskStore) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		INSERT INTO tasks (title, description, completed)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	created, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
	))
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created successfully", slog.Int64("task_id", created.ID))
	return created, nil
}

// FindTask implements store.TaskStore.FindTask
func (s *PostgresTaskStore) FindTask(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`

	tasks, err := s.queryTasks(ctx, query)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "find", "failed to list tasks", MapError(err))
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindTaskByIDs implements store.TaskStore.FindTaskByIDs
func (s *PostgresTaskStore) FindTaskByIDs(ctx context.Context, ids []int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ANY($1) ORDER BY id`

	tasks, err := s.queryTasks(ctx, query, ids)
	if err != nil {
		log.Error("failed to find tasks by IDs",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, store.NewStoreError("task", "find", "failed to find tasks by IDs", MapError(err))
	}

	return tasks, nil
}

// DetailTask implements store.TaskStore.DetailTask
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) DetailTask(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "failed to get task", MapError(err))
	}

	return task, nil
}

// UpdateTaskBulk implements store.TaskStore.UpdateTaskBulk
// When the store is backed by a *sql.DB every overwrite runs inside a single
// transaction. On a *sql.Tx the caller owns the transaction boundary.
func (s *PostgresTaskStore) UpdateTaskBulk(ctx context.Context, tasks []*domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(tasks) == 0 {
		return nil
	}

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			log.Warn("task validation failed during bulk update",
				slog.String("error", err.Error()),
				slog.Int64("task_id", task.ID))
			return err
		}
	}

	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.updateTasks(ctx, tasks)
	}

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).updateTasks(ctx, tasks)
	})
	if err != nil {
		log.Error("bulk task update failed",
			slog.String("error", err.Error()),
			slog.Int("task_count", len(tasks)))
		return err
	}

	log.Info("bulk task update completed", slog.Int("task_count", len(tasks)))
	return nil
}

// updateTasks skips drafts, which cannot match a stored row.
func (s *PostgresTaskStore) updateTasks(ctx context.Context, tasks []*domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, updated_at = NOW()
		WHERE id = $4
	`

	for _, task := range tasks {
		if !task.IsPersisted() {
			continue
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			task.Title,
			task.Description,
			task.Completed,
			task.ID,
		)
		if err != nil {
			return store.NewStoreError(
				"task",
				"update",
				fmt.Sprintf("failed to update task %d", task.ID),
				MapError(err),
			)
		}
	}

	return nil
}

// UpdateTaskDetail implements store.TaskStore.UpdateTaskDetail
// Nil patch fields keep their stored value. An empty patch is a plain read.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdateTaskDetail(
	ctx context.Context,
	id int64,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Title != nil {
		if err := (&domain.Task{ID: id, Title: *patch.Title}).Validate(); err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		return s.DetailTask(ctx, id)
	}

	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			completed = COALESCE($3, completed),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		nullableString(patch.Title),
		nullableString(patch.Description),
		nullableBool(patch.Completed),
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	log.Info("task updated successfully", slog.Int64("task_id", id))
	return task, nil
}

// DeleteTasks implements store.TaskStore.DeleteTasks
// Returns false when none of the IDs matched a stored task.
func (s *PostgresTaskStore) DeleteTasks(ctx context.Context, ids []int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ANY($1)`, ids)
	if err != nil {
		log.Error("failed to delete tasks",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return false, store.NewStoreError("task", "delete", "failed to delete tasks", MapError(err))
	}

	deleted, err := RowsAffected(result)
	if err != nil {
		return false, store.NewStoreError("task", "delete", "failed to read deleted rows", err)
	}

	log.Info("tasks deleted", slog.Int64("deleted", deleted), slog.Int("requested", len(ids)))
	return deleted > 0, nil
}

// Ping implements store.TaskStore.Ping with a trivial round trip.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed); err != nil {
		return nil, err
	}
	return &task, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
