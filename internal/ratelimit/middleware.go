package ratelimit

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateLimitExceededMessage is the envelope message of a rejected request.
const RateLimitExceededMessage = "Rate limit exceeded"

var rejectedRequests = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ratelimit_rejected_requests_total",
	Help: "Total number of requests rejected by the rate limiter",
})

// Middleware rejects requests with 429 once l has no tokens left.
// Admitted requests are passed to next unchanged.
func Middleware(l *Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "rate_limiter"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				rejectedRequests.Inc()

				reqLog := logger.FromContextOrDefault(r.Context(), log)
				reqLog.Warn("rate limit exceeded",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr))

				shared.RespondWithError(w, r, http.StatusTooManyRequests, RateLimitExceededMessage, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
