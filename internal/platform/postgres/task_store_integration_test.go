//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/phrazzld/task-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	ctx := context.Background()

	t.Run("create, read, patch and delete", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresTaskStore(tx, nil)

			first, err := s.CreateTask(ctx, &domain.Task{Title: "first", Description: "d"})
			require.NoError(t, err)
			second, err := s.CreateTask(ctx, &domain.Task{Title: "second"})
			require.NoError(t, err)
			assert.Greater(t, second.ID, first.ID, "IDs are strictly increasing")

			found, err := s.DetailTask(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, first, found)

			completed := true
			patched, err := s.UpdateTaskDetail(ctx, first.ID, store.TaskPatch{Completed: &completed})
			require.NoError(t, err)
			assert.True(t, patched.Completed)
			assert.Equal(t, "first", patched.Title)
			assert.Equal(t, "d", patched.Description)

			byIDs, err := s.FindTaskByIDs(ctx, []int64{second.ID, 999999999})
			require.NoError(t, err)
			require.Len(t, byIDs, 1)
			assert.Equal(t, second.ID, byIDs[0].ID)

			deleted, err := s.DeleteTasks(ctx, []int64{first.ID, second.ID})
			require.NoError(t, err)
			assert.True(t, deleted)

			_, err = s.DetailTask(ctx, first.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)

			deleted, err = s.DeleteTasks(ctx, []int64{first.ID})
			require.NoError(t, err)
			assert.False(t, deleted)
		})
	})

	t.Run("bulk overwrite ignores unknown IDs", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresTaskStore(tx, nil)

			task, err := s.CreateTask(ctx, &domain.Task{Title: "bulk"})
			require.NoError(t, err)

			task.Completed = true
			err = s.UpdateTaskBulk(ctx, []*domain.Task{task, {ID: 999999999, Title: "ghost"}})
			require.NoError(t, err)

			found, err := s.DetailTask(ctx, task.ID)
			require.NoError(t, err)
			assert.True(t, found.Completed)
		})
	})

	t.Run("blank title violates the check constraint", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			_, err := tx.ExecContext(ctx, `INSERT INTO tasks (title) VALUES ('  ')`)
			require.Error(t, err)
			assert.True(t, postgres.IsCheckConstraintViolation(err))
			assert.ErrorIs(t, postgres.MapError(err), store.ErrInvalidEntity)
		})
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, postgres.NewPostgresTaskStore(db, nil).Ping(ctx))
	})
}
