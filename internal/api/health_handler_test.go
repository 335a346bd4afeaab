package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupHealthRouter(t *testing.T) (*chi.Mux, *MockHealthService) {
	t.Helper()

	svc := new(MockHealthService)
	h := NewHealthHandler(svc, nil)

	r := chi.NewRouter()
	r.Route("/api/v1/health", h.Routes)
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)
	return r, svc
}

func TestHealthHandler_Ping(t *testing.T) {
	r, _ := setupHealthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","message":"pong"}`, rec.Body.String())
}

func TestHealthHandler_Check(t *testing.T) {
	t.Run("db unhealthy is still 200", func(t *testing.T) {
		r, svc := setupHealthRouter(t)
		svc.On("CheckUpTime", mock.Anything).Return(service.HealthStatus{
			Redis: service.StatusHealthy,
			DB:    service.StatusUnhealthy,
		}, nil)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/check", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","message":{"redis":"healthy","db":"unhealthy"}}`, rec.Body.String())
	})

	t.Run("check failure is 500", func(t *testing.T) {
		r, svc := setupHealthRouter(t)
		svc.On("CheckUpTime", mock.Anything).Return(service.HealthStatus{}, context.Canceled)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/check", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","message":"Something went wrong"}`, rec.Body.String())
	})
}

func TestNotFound(t *testing.T) {
	r, _ := setupHealthRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPost, "/api/v1/health/ping"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

		require.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, MsgRouteNotFound, body["message"])
		assert.Equal(t, "Not Found", body["status"])
		assert.Nil(t, body["data"])
	}
}
