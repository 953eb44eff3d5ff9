package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, query string, filter service.ChunkFilter, limit int) ([]*domain.ChunkMatch, error)
	GetRelevantContext(ctx context.Context, query string, scope service.Scope, limit int) (string, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query      string `json:"query"`
	SourceType string `json:"source_type,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type SearchResultResponse struct {
	ChunkID    string  `json:"chunk_id"`
	SourceID   string  `json:"source_id"`
	SourceType string  `json:"source_type"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

type SearchResponse struct {
	Results []*SearchResultResponse `json:"results"`
}

type ContextRequest struct {
	Query    string `json:"query"`
	CourseID string `json:"course_id,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ContextResponse struct {
	Context string `json:"context"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.SourceType != "" && !domain.IsValidSourceType(domain.SourceType(req.SourceType)) {
		api.Error(w, http.StatusBadRequest, "invalid source type")
		return
	}

	matches, err := h.svc.Search(r.Context(), req.Query, service.ChunkFilter{
		SourceType: domain.SourceType(req.SourceType),
		SourceID:   req.SourceID,
	}, req.Limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := SearchResponse{Results: make([]*SearchResultResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Results = append(resp.Results, &SearchResultResponse{
			ChunkID:    m.ID,
			SourceID:   m.SourceID,
			SourceType: string(m.SourceType),
			ChunkIndex: m.ChunkIndex,
			Text:       m.Text,
			Score:      m.Score,
		})
	}

	api.Success(w, http.StatusOK, resp)
}

// Context returns the concatenated retrieval context for a query, scoped to a
// course or upload when requested.
func (h *SearchHandler) Context(w http.ResponseWriter, r *http.Request) {
	var req ContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.CourseID != "" && req.UploadID != "" {
		api.Error(w, http.StatusBadRequest, "course_id and upload_id are mutually exclusive")
		return
	}

	ctxText, err := h.svc.GetRelevantContext(r.Context(), req.Query, service.Scope{
		CourseID: req.CourseID,
		UploadID: req.UploadID,
	}, req.Limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ContextResponse{Context: ctxText})
}
