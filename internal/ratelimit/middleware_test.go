package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)
	l := newLimiter(2, time.Hour)

	calls := 0
	handler := Middleware(l, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	before := testutil.ToFloat64(rejectedRequests)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t,
		`{"status":"Too Many Requests","code":429,"message":"Rate limit exceeded","data":null,"dataError":null}`,
		w.Body.String())
	assert.Equal(t, 2, calls, "rejected requests never reach the handler")
	assert.Equal(t, before+1, testutil.ToFloat64(rejectedRequests))
	assert.Contains(t, buf.String(), "rate limit exceeded")
}
