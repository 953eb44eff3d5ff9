package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

func TestSuccess_WrapsDataEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Data["id"])
}

func TestError_WritesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, "title is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "title is required", resp.Error)
	assert.Empty(t, resp.Code)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", domain.ErrMissingRequiredField, http.StatusBadRequest},
		{"not found", domain.ErrCourseNotFound, http.StatusNotFound},
		{"already exists", domain.ErrUserAlreadyExists, http.StatusConflict},
		{"unauthorized", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrNotCourseOwner, http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError_DomainErrorCarriesCode(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domain.ErrQuizNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "quiz not found", resp.Error)
	assert.Equal(t, domain.ErrCodeNotFound, resp.Code)
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, fmt.Errorf("loading course: %w", domain.ErrCourseNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "connection reset", resp.Error)
}
