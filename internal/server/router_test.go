package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/api/handlers"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/service"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query string, filter service.ChunkFilter, limit int) ([]*domain.ChunkMatch, error) {
	args := m.Called(ctx, query, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChunkMatch), args.Error(1)
}

func (m *MockSearchService) GetRelevantContext(ctx context.Context, query string, scope service.Scope, limit int) (string, error) {
	args := m.Called(ctx, query, scope, limit)
	return args.String(0), args.Error(1)
}

func newTestRouter(validator *MockTokenValidator, search *MockSearchService) http.Handler {
	return NewRouter(RouterConfig{
		TokenValidator: validator,
		AuthHandler:    handlers.NewAuthHandler(nil),
		CourseHandler:  handlers.NewCourseHandler(nil),
		UploadHandler:  handlers.NewUploadHandler(nil),
		ChatHandler:    handlers.NewChatHandler(nil),
		SearchHandler:  handlers.NewSearchHandler(search),
		QuizHandler:    handlers.NewQuizHandler(nil),
	})
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(new(MockTokenValidator), new(MockSearchService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_SearchRequiresAuth(t *testing.T) {
	router := newTestRouter(new(MockTokenValidator), new(MockSearchService))

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SearchWithValidToken(t *testing.T) {
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", mock.Anything, "good-token").Return("user-1", nil)

	search := new(MockSearchService)
	search.On("Search", mock.Anything, "limits", service.ChunkFilter{SourceType: domain.SourceTypeCourse, SourceID: "c1"}, 3).
		Return([]*domain.ChunkMatch{
			{Chunk: domain.Chunk{ID: "k1", SourceID: "c1", SourceType: domain.SourceTypeCourse, Text: "A limit is..."}, Score: 0.93},
		}, nil)

	router := newTestRouter(validator, search)

	body := `{"query":"limits","source_type":"course","source_id":"c1","limit":3}`
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Results []struct {
				ChunkID string  `json:"chunk_id"`
				Score   float32 `json:"score"`
			} `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Results, 1)
	assert.Equal(t, "k1", envelope.Data.Results[0].ChunkID)
	assert.InDelta(t, 0.93, envelope.Data.Results[0].Score, 1e-6)
}

func TestRouter_RejectsBadToken(t *testing.T) {
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", mock.Anything, "bad-token").Return("", domain.ErrInvalidToken)

	router := newTestRouter(validator, new(MockSearchService))

	req := httptest.NewRequest(http.MethodPost, "/context", strings.NewReader(`{"query":"x"}`))
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ContextEndpoint(t *testing.T) {
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", mock.Anything, "good-token").Return("user-1", nil)

	search := new(MockSearchService)
	search.On("GetRelevantContext", mock.Anything, "what is a limit", service.Scope{CourseID: "c1"}, 0).
		Return("chunk one\n\nchunk two", nil)

	router := newTestRouter(validator, search)

	body := `{"query":"what is a limit","course_id":"c1"}`
	req := httptest.NewRequest(http.MethodPost, "/context", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chunk one\\n\\nchunk two")
}
