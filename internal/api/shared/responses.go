package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
)

// Response is the standard envelope for task endpoints. Exactly one of Data
// and DataError is non-null.
type Response struct {
	Status    string      `json:"status"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	DataError interface{} `json:"dataError"`
}

// PaginatedResponse is the envelope for paged listings.
type PaginatedResponse struct {
	Status     string      `json:"status"`
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalCount int         `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

// StatusResponse is the shorter envelope used by the health endpoints.
type StatusResponse struct {
	Status  string      `json:"status"`
	Message interface{} `json:"message"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// StatusText returns the reason phrase used as the envelope status.
func StatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown Status"
}

// TotalPages returns ceil(totalCount/size), or 0 when size is not positive.
func TotalPages(totalCount, size int) int {
	if size <= 0 {
		return 0
	}
	return (totalCount + size - 1) / size
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondSuccess writes a success envelope with dataError set to null.
func RespondSuccess(w http.ResponseWriter, r *http.Request, code int, message string, data interface{}) {
	RespondWithJSON(w, r, code, Response{
		Status:  StatusText(code),
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// RespondPaginated writes a paginated envelope.
func RespondPaginated(
	w http.ResponseWriter,
	r *http.Request,
	code int,
	message string,
	data interface{},
	totalCount, page, size int,
) {
	RespondWithJSON(w, r, code, PaginatedResponse{
		Status:     StatusText(code),
		Code:       code,
		Message:    message,
		Page:       page,
		Size:       size,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, size),
		Data:       data,
	})
}

// RespondWithError writes an error envelope with data set to null.
func RespondWithError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	dataError interface{},
) {
	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", GetTraceID(r.Context()),
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Response{
		Status:    StatusText(status),
		Code:      status,
		Message:   message,
		DataError: dataError,
	})
}

// RespondWithErrorAndLog writes an error envelope and also logs the detailed,
// redacted error.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 429 Too Many Requests: Logged at WARN level (operational concern)
// - Other 4xx errors: DEBUG, or WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	dataError interface{},
	err error,
	opts ...ResponseOption,
) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", message),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if status == http.StatusTooManyRequests {
		logLevel = slog.LevelWarn
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, Response{
		Status:    StatusText(status),
		Code:      status,
		Message:   message,
		DataError: dataError,
	})
}
