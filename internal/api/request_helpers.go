package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
)

// Paging defaults for GET /tasks.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// getPathTaskID extracts a positive task ID from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed ID if valid
//   - (0, error): An error wrapping domain.ErrInvalidID if the parameter is
//     missing, non-numeric, zero or negative
func getPathTaskID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// getPaging reads ?page= and ?size=. ok is false when neither is present.
// Missing values take the defaults; malformed ones are reported as field errors.
func getPaging(r *http.Request) (ListTasksQuery, bool, []shared.FieldError) {
	query := r.URL.Query()
	if !query.Has("page") && !query.Has("size") {
		return ListTasksQuery{}, false, nil
	}

	paging := ListTasksQuery{Page: DefaultPage, Size: DefaultPageSize}
	var fieldErrs []shared.FieldError

	parse := func(name string, dst *int) {
		raw := query.Get(name)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrs = append(fieldErrs, shared.FieldError{Field: name, Message: "must be an integer"})
			return
		}
		*dst = n
	}
	parse("page", &paging.Page)
	parse("size", &paging.Size)

	if len(fieldErrs) > 0 {
		return paging, true, fieldErrs
	}

	if err := shared.ValidateRequest(paging); err != nil {
		return paging, true, shared.DescribeRequestError(err)
	}

	return paging, true, nil
}

// decodeAndValidate decodes the body into req and validates it. On failure it
// writes the 400 envelope and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		HandleRequestError(w, r, err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleRequestError(w, r, err)
		return false
	}

	return true
}
