package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title   *string `json:"title"   validate:"required"`
	IDs     []int64 `json:"task_id" validate:"required,dive,gt=0"`
	Enabled *bool   `json:"enabled"`
}

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"title": "a", "task_id": [1, 2]}`,
		},
		{
			name:        "unknown field",
			requestBody: `{"title": "a", "priority": 3}`,
			wantErr:     true,
			errContains: "unknown field",
		},
		{
			name:        "wrong type",
			requestBody: `{"title": 12}`,
			wantErr:     true,
			errContains: "cannot unmarshal",
		},
		{
			name:        "malformed",
			requestBody: `{"title": `,
			wantErr:     true,
		},
		{
			name:        "empty body",
			requestBody: ``,
			wantErr:     true,
			errContains: "request body is empty",
		},
		{
			name:        "trailing data",
			requestBody: `{"title": "a"} {"title": "b"}`,
			wantErr:     true,
			errContains: "single JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target sampleRequest
			err := DecodeJSON(newRequest(tt.requestBody), &target)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", *target.Title)
			assert.Equal(t, []int64{1, 2}, target.IDs)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	title := "a"

	assert.NoError(t, ValidateRequest(&sampleRequest{Title: &title, IDs: []int64{1}}))
	assert.NoError(t, ValidateRequest(&sampleRequest{Title: &title, IDs: []int64{}}),
		"an empty id list is allowed")

	err := ValidateRequest(&sampleRequest{IDs: []int64{1, 0}})
	require.Error(t, err)

	details := DescribeRequestError(err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "title", Message: "is required"},
		{Field: "task_id[1]", Message: "must be greater than 0"},
	}, details)
}

func TestDescribeRequestError(t *testing.T) {
	decode := func(body string) error {
		var target sampleRequest
		return DecodeJSON(newRequest(body), &target)
	}

	assert.Nil(t, DescribeRequestError(nil))

	assert.Equal(t,
		[]FieldError{{Field: "priority", Message: "is not allowed"}},
		DescribeRequestError(decode(`{"priority": 1}`)))

	assert.Equal(t,
		[]FieldError{{Field: "enabled", Message: "must be of type boolean"}},
		DescribeRequestError(decode(`{"enabled": "yes"}`)))

	assert.Equal(t,
		[]FieldError{{Field: "task_id", Message: "must be of type array"}},
		DescribeRequestError(decode(`{"task_id": 5}`)))

	assert.Equal(t,
		[]FieldError{{Field: "body", Message: "malformed JSON"}},
		DescribeRequestError(decode(`{"title": "a",}`)))

	assert.Equal(t,
		[]FieldError{{Field: "body", Message: "request body is empty"}},
		DescribeRequestError(decode(``)))
}
