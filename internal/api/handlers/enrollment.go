package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
	"github.com/studyhub-ai/studyhub/internal/domain"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	Unenroll(ctx context.Context, userID, courseID string) error
	UpdateProgress(ctx context.Context, userID, courseID string, progress float64) (*domain.Enrollment, error)
	ListEnrolledCourses(ctx context.Context, userID string) ([]*domain.EnrolledCourse, error)
	ListCourseStudents(ctx context.Context, userID, courseID string) ([]*domain.StudentEnrollment, error)
}

type EnrollmentHandler struct {
	svc EnrollmentService
}

func NewEnrollmentHandler(svc EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc}
}

type EnrollmentResponse struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id"`
	UserID      string  `json:"user_id"`
	Progress    float64 `json:"progress"`
	EnrolledAt  string  `json:"enrolled_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

type EnrolledCourseResponse struct {
	Course      *CourseResponse `json:"course"`
	Progress    float64         `json:"progress"`
	EnrolledAt  string          `json:"enrolled_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

type StudentEnrollmentResponse struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Progress    float64 `json:"progress"`
	EnrolledAt  string  `json:"enrolled_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

type UpdateProgressRequest struct {
	Progress float64 `json:"progress"`
}

func enrollmentToResponse(e *domain.Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:         e.ID,
		CourseID:   e.CourseID,
		UserID:     e.UserID,
		Progress:   e.Progress,
		EnrolledAt: e.EnrolledAt.Format("2006-01-02T15:04:05Z"),
	}
	if e.CompletedAt != nil {
		resp.CompletedAt = e.CompletedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

func enrolledCourseToResponse(ec *domain.EnrolledCourse) *EnrolledCourseResponse {
	resp := &EnrolledCourseResponse{
		Course:     courseToResponse(&ec.Course),
		Progress:   ec.Progress,
		EnrolledAt: ec.EnrolledAt.Format("2006-01-02T15:04:05Z"),
	}
	if ec.CompletedAt != nil {
		resp.CompletedAt = ec.CompletedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

func studentEnrollmentToResponse(s *domain.StudentEnrollment) *StudentEnrollmentResponse {
	resp := &StudentEnrollmentResponse{
		UserID:     s.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Progress:   s.Progress,
		EnrolledAt: s.EnrolledAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.CompletedAt != nil {
		resp.CompletedAt = s.CompletedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	enrollment, err := h.svc.Enroll(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, enrollmentToResponse(enrollment))
}

func (h *EnrollmentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.svc.Unenroll(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"message": "unenrolled"})
}

func (h *EnrollmentHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := h.svc.UpdateProgress(r.Context(), userID, chi.URLParam(r, "id"), req.Progress)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, enrollmentToResponse(enrollment))
}

func (h *EnrollmentHandler) ListEnrolled(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	enrolled, err := h.svc.ListEnrolledCourses(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*EnrolledCourseResponse, 0, len(enrolled))
	for _, ec := range enrolled {
		resp = append(resp, enrolledCourseToResponse(ec))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *EnrollmentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	students, err := h.svc.ListCourseStudents(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*StudentEnrollmentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, studentEnrollmentToResponse(s))
	}
	api.Success(w, http.StatusOK, resp)
}
