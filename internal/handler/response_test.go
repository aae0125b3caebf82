package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-life-planner/internal/model"
	"go-life-planner/pkg/apierror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid type", fmt.Errorf("%w: habit", model.ErrInvalidType), http.StatusBadRequest, "INVALID_TYPE"},
		{"validation", fmt.Errorf("%w: missing title", model.ErrValidation), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"recycle item missing", model.ErrRecycleItemNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"entity missing", model.ErrEntityNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", fmt.Errorf("%w: duplicate", model.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"unauthorized", model.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid input", model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"api error", apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest), http.StatusBadRequest, "BAD_REQUEST"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body model.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, body.Error.Message, body.Message)
		})
	}
}

func TestWrappedAPIErrorKeepsCause(t *testing.T) {
	cause := errors.New("bad duration")
	err := apierror.Wrap(cause, "BAD_REQUEST", "olderThan must be a duration", http.StatusBadRequest)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad duration", err.Details)
}
