package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
	"github.com/studyhub-ai/studyhub/internal/domain"
)

type DashboardService interface {
	StudentDashboard(ctx context.Context, userID string) (*domain.StudentOverview, error)
	InstructorDashboard(ctx context.Context, userID string) (*domain.InstructorOverview, error)
	CourseAnalytics(ctx context.Context, userID, courseID string) (*domain.CourseAnalytics, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error)
}

type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type StudentOverviewResponse struct {
	EnrolledCourses  int64   `json:"enrolled_courses"`
	CompletedCourses int64   `json:"completed_courses"`
	QuizzesTaken     int64   `json:"quizzes_taken"`
	AverageScore     float64 `json:"average_score"`
	ChatSessions     int64   `json:"chat_sessions"`
}

type InstructorOverviewResponse struct {
	Courses     int64 `json:"courses"`
	Students    int64 `json:"students"`
	Enrollments int64 `json:"enrollments"`
	Quizzes     int64 `json:"quizzes"`
}

type CourseAnalyticsResponse struct {
	CourseID        string  `json:"course_id"`
	Enrolled        int64   `json:"enrolled"`
	Completed       int64   `json:"completed"`
	AverageProgress float64 `json:"average_progress"`
	Quizzes         int64   `json:"quizzes"`
	Submissions     int64   `json:"submissions"`
	AverageScore    float64 `json:"average_score"`
}

type LeaderboardEntryResponse struct {
	UserID           string  `json:"user_id"`
	UserName         string  `json:"user_name"`
	Score            float64 `json:"score"`
	QuizzesTaken     int64   `json:"quizzes_taken"`
	CoursesCompleted int64   `json:"courses_completed"`
}

func (h *DashboardHandler) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	overview, err := h.svc.StudentDashboard(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &StudentOverviewResponse{
		EnrolledCourses:  overview.EnrolledCourses,
		CompletedCourses: overview.CompletedCourses,
		QuizzesTaken:     overview.QuizzesTaken,
		AverageScore:     overview.AverageScore,
		ChatSessions:     overview.ChatSessions,
	})
}

func (h *DashboardHandler) InstructorDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	overview, err := h.svc.InstructorDashboard(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &InstructorOverviewResponse{
		Courses:     overview.Courses,
		Students:    overview.Students,
		Enrollments: overview.Enrollments,
		Quizzes:     overview.Quizzes,
	})
}

func (h *DashboardHandler) CourseAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	analytics, err := h.svc.CourseAnalytics(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &CourseAnalyticsResponse{
		CourseID:        analytics.CourseID,
		Enrolled:        analytics.Enrolled,
		Completed:       analytics.Completed,
		AverageProgress: analytics.AverageProgress,
		Quizzes:         analytics.Quizzes,
		Submissions:     analytics.Submissions,
		AverageScore:    analytics.AverageScore,
	})
}

func (h *DashboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, &LeaderboardEntryResponse{
			UserID:           e.UserID,
			UserName:         e.UserName,
			Score:            e.Score,
			QuizzesTaken:     e.QuizzesTaken,
			CoursesCompleted: e.CoursesCompleted,
		})
	}
	api.Success(w, http.StatusOK, resp)
}
