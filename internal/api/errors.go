package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/cache"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// Client-facing messages.
const (
	MsgBadRequest       = "error, Bad Request"
	MsgInvalidID        = "Invalid ID Task"
	MsgNotFound         = "Record not found"
	MsgRouteNotFound    = "Not found Routes or Page"
	MsgDuplicateRequest = "Duplicate request"
	MsgUnexpected       = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, cache.ErrKeyExists):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the envelope message for err. Backend failures
// surface their redacted text; everything else gets a fixed message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusConflict:
		return MsgDuplicateRequest
	default:
		return redact.Error(err)
	}
}

// HandleAPIError writes the error envelope for err and logs it.
// Validation failures get field details in dataError; other errors use the
// dataError supplied by the caller.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, dataError interface{}) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusBadRequest {
		dataError = describeDomainError(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), dataError, err)
}

// HandleRequestError writes a 400 envelope for a body that failed to decode or
// validate. The service is never reached.
func HandleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(
		w,
		r,
		http.StatusBadRequest,
		MsgBadRequest,
		shared.DescribeRequestError(err),
		err,
	)
}

func describeDomainError(err error) []shared.FieldError {
	switch {
	case errors.Is(err, domain.ErrEmptyTaskTitle):
		return []shared.FieldError{{Field: "title", Message: "cannot be empty"}}
	case errors.Is(err, domain.ErrInvalidID):
		return []shared.FieldError{{Field: "id", Message: "must be a positive integer"}}
	default:
		return []shared.FieldError{{Field: "body", Message: redact.Error(err)}}
	}
}
