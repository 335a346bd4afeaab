package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service"
)

// Health endpoint envelope values.
const (
	HealthStatusOK    = "OK"
	HealthStatusError = "Error"
	HealthPong        = "pong"
	HealthFailure     = "Something went wrong"
)

// HealthHandler serves the liveness and dependency endpoints.
type HealthHandler struct {
	healthService service.HealthService
	logger        *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(healthService service.HealthService, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		healthService: healthService,
		logger:        logger.With("component", "health_handler"),
	}
}

// Routes mounts /ping and /check on r.
func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/ping", h.Ping)
	r.Get("/check", h.Check)
}

// Ping handles GET /health/ping requests
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, shared.StatusResponse{
		Status:  HealthStatusOK,
		Message: HealthPong,
	})
}

// Check handles GET /health/check requests. Dependency failures are reported
// in the body; only a failure of the check itself yields a 500.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status, err := h.healthService.CheckUpTime(r.Context())
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("health check failed",
			"error", redact.Error(err))
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, shared.StatusResponse{
			Status:  HealthStatusError,
			Message: HealthFailure,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.StatusResponse{
		Status:  HealthStatusOK,
		Message: status,
	})
}

// NotFound answers unmatched routes and methods.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, MsgRouteNotFound, nil)
}
