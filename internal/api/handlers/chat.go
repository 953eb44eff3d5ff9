package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/service"
)

type ChatService interface {
	CreateSession(ctx context.Context, userID string, input service.SessionInput) (*domain.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	ListMessages(ctx context.Context, userID, sessionID string) ([]*domain.ChatMessage, error)
	SendMessage(ctx context.Context, userID, sessionID, content string) (*domain.ChatMessage, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type CreateSessionRequest struct {
	CourseID string `json:"course_id,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

type SessionResponse struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id,omitempty"`
	UploadID  string `json:"upload_id,omitempty"`
	Title     string `json:"title"`
	Mode      string `json:"mode"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func sessionToResponse(s *domain.ChatSession) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID,
		CourseID:  s.CourseID,
		UploadID:  s.UploadID,
		Title:     s.Title,
		Mode:      string(s.Mode),
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func messageToResponse(m *domain.ChatMessage) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.CreateSession(r.Context(), userID, service.SessionInput{
		CourseID: req.CourseID,
		UploadID: req.UploadID,
		Title:    req.Title,
		Mode:     domain.ChatMode(req.Mode),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, sessionToResponse(session))
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.svc.ListSessions(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, sessionToResponse(s))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	session, err := h.svc.GetSession(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, sessionToResponse(session))
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.svc.DeleteSession(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusNoContent, nil)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	messages, err := h.svc.ListMessages(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, messageToResponse(m))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, err := h.svc.SendMessage(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, messageToResponse(reply))
}
