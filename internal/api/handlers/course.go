package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/pagination"
	"github.com/studyhub-ai/studyhub/internal/service"
)

type CourseService interface {
	CreateCourse(ctx context.Context, ownerID string, input service.CourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context, ownerID, cursorToken string, limit int) (*pagination.Page[*domain.Course], error)
	UpdateCourse(ctx context.Context, userID, id string, input service.CourseInput) (*domain.Course, error)
	DeleteCourse(ctx context.Context, userID, id string) error
	AddChapter(ctx context.Context, userID, courseID string, input service.ChapterInput) (*domain.Chapter, error)
	GetChapter(ctx context.Context, id string) (*domain.Chapter, error)
	ListChapters(ctx context.Context, courseID string) ([]*domain.Chapter, error)
	UpdateChapter(ctx context.Context, userID, chapterID string, input service.ChapterInput) (*domain.Chapter, error)
	DeleteChapter(ctx context.Context, userID, chapterID string) error
}

type CourseHandler struct {
	svc CourseService
}

func NewCourseHandler(svc CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

type CourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Outline     string   `json:"outline"`
	Level       string   `json:"level,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type CourseResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Outline     string   `json:"outline"`
	Level       string   `json:"level"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

type ChapterRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

type ChapterResponse struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func courseToResponse(c *domain.Course) *CourseResponse {
	return &CourseResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		Outline:     c.Outline,
		Level:       string(c.Level),
		Tags:        c.Tags,
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func chapterToResponse(ch *domain.Chapter) *ChapterResponse {
	return &ChapterResponse{
		ID:        ch.ID,
		CourseID:  ch.CourseID,
		Title:     ch.Title,
		Content:   ch.Content,
		Position:  ch.Position,
		CreatedAt: ch.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: ch.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func courseInputFromRequest(req CourseRequest) service.CourseInput {
	return service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Outline:     req.Outline,
		Level:       domain.CourseLevel(req.Level),
		Tags:        req.Tags,
	}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	course, err := h.svc.CreateCourse(r.Context(), userID, courseInputFromRequest(req))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, courseToResponse(course))
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.svc.ListCourses(r.Context(), userID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := CourseListResponse{
		Courses: make([]*CourseResponse, 0, len(page.Items)),
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	}
	for _, c := range page.Items {
		resp.Courses = append(resp.Courses, courseToResponse(c))
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, courseToResponse(course))
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.svc.UpdateCourse(r.Context(), userID, chi.URLParam(r, "id"), courseInputFromRequest(req))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, courseToResponse(course))
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.svc.DeleteCourse(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}

func (h *CourseHandler) AddChapter(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	chapter, err := h.svc.AddChapter(r.Context(), userID, chi.URLParam(r, "id"), service.ChapterInput{
		Title:    req.Title,
		Content:  req.Content,
		Position: req.Position,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, chapterToResponse(chapter))
}

func (h *CourseHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.svc.ListChapters(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*ChapterResponse, 0, len(chapters))
	for _, ch := range chapters {
		resp = append(resp, chapterToResponse(ch))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *CourseHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := h.svc.GetChapter(r.Context(), chi.URLParam(r, "chapterID"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, chapterToResponse(chapter))
}

func (h *CourseHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chapter, err := h.svc.UpdateChapter(r.Context(), userID, chi.URLParam(r, "chapterID"), service.ChapterInput{
		Title:    req.Title,
		Content:  req.Content,
		Position: req.Position,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, chapterToResponse(chapter))
}

func (h *CourseHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.svc.DeleteChapter(r.Context(), userID, chi.URLParam(r, "chapterID")); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
