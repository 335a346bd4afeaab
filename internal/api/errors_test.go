package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/cache"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "service not found",
			err:            service.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store not found",
			err:            store.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "domain validation error",
			err:            domain.ErrEmptyTaskTitle,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped invalid ID",
			err:            fmt.Errorf("parse: %w", domain.ErrInvalidID),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "check constraint from the database",
			err:            store.NewStoreError("task", "create", "insert", store.ErrInvalidEntity),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate idempotency key",
			err:            cache.ErrKeyExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "backend failure",
			err:            service.NewTaskServiceError("find_task", "failed", errors.New("connection refused")),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: MsgUnexpected},
		{name: "not found", err: service.ErrTaskNotFound, expected: MsgNotFound},
		{name: "validation", err: domain.ErrEmptyTaskTitle, expected: MsgBadRequest},
		{name: "conflict", err: cache.ErrKeyExists, expected: MsgDuplicateRequest},
		{
			name:     "backend failure surfaces its message",
			err:      errors.New("relation \"tasks\" does not exist"),
			expected: "relation \"tasks\" does not exist",
		},
		{
			name:     "backend failure is redacted",
			err:      errors.New("dial postgres://tasks:secret@db:5432 failed"),
			expected: "dial [REDACTED_CREDENTIAL]db:5432 failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("validation errors carry field details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil)

		HandleAPIError(rec, req, domain.ErrEmptyTaskTitle, map[string]string{"ignored": "yes"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body struct {
			Message   string              `json:"message"`
			DataError []shared.FieldError `json:"dataError"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, MsgBadRequest, body.Message)
		assert.Equal(t, []shared.FieldError{{Field: "title", Message: "cannot be empty"}}, body.DataError)
	})

	t.Run("other errors keep the caller's dataError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/9", nil)

		HandleAPIError(rec, req, service.ErrTaskNotFound, 9)

		require.Equal(t, http.StatusNotFound, rec.Code)
		var body shared.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Not Found", body.Status)
		assert.Equal(t, MsgNotFound, body.Message)
		assert.Nil(t, body.Data)
		assert.Equal(t, float64(9), body.DataError)
	})
}
