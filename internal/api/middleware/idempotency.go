package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/cache"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
)

// IdempotencyKeyHeader carries the client's idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// DuplicateRequestMessage is the envelope message of a replayed request.
const DuplicateRequestMessage = "Duplicate request"

// ErrDuplicateRequest is logged when a request reuses a held idempotency key.
var ErrDuplicateRequest = fmt.Errorf("duplicate request: %w", cache.ErrKeyExists)

// IdempotencyStore claims and tracks idempotency keys.
type IdempotencyStore interface {
	SetIdempotencyKey(ctx context.Context, key string, ttl time.Duration) error
	ReleaseIdempotencyKey(ctx context.Context, key string) error
	CompleteIdempotencyKey(ctx context.Context, key string, ttl time.Duration) error
	IdempotencyState(ctx context.Context, key string) (string, error)
}

// DuplicateRequest is the dataError of a 409 response.
type DuplicateRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	State          string `json:"state"`
}

// Idempotency claims the Idempotency-Key header before calling next. A request
// whose key is already held gets 409. A key whose request fails with a status
// of 400 or more is released so the client can retry; a successful one is
// kept as completed until ttl expires. Requests without the header pass through.
func Idempotency(store IdempotencyStore, ttl time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "idempotency"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			reqLog := logger.FromContextOrDefault(ctx, log)

			if err := store.SetIdempotencyKey(ctx, key, ttl); err != nil {
				if errors.Is(err, cache.ErrKeyExists) {
					state, stateErr := store.IdempotencyState(ctx, key)
					if stateErr != nil {
						state = cache.IdempotencyProcessing
					}
					shared.RespondWithErrorAndLog(w, r, http.StatusConflict, DuplicateRequestMessage,
						DuplicateRequest{IdempotencyKey: key, State: state},
						ErrDuplicateRequest, shared.WithElevatedLogLevel())
					return
				}

				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, redact.Error(err), nil, err)
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// The request context may already be cancelled once the response is written.
			bg := context.WithoutCancel(ctx)
			if status := ww.Status(); status >= http.StatusBadRequest {
				if err := store.ReleaseIdempotencyKey(bg, key); err != nil {
					reqLog.Error("failed to release idempotency key",
						slog.String("key", key),
						slog.String("error", redact.Error(err)))
				}
				return
			}

			if err := store.CompleteIdempotencyKey(bg, key, ttl); err != nil {
				reqLog.Error("failed to complete idempotency key",
					slog.String("key", key),
					slog.String("error", redact.Error(err)))
			}
		})
	}
}
