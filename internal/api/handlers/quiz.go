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

type QuizService interface {
	GenerateQuiz(ctx context.Context, userID, courseID, title string, questionCount int) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, courseID string) ([]*domain.Quiz, error)
	SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*domain.QuizSubmission, error)
	ListSubmissions(ctx context.Context, userID, quizID string) ([]*domain.QuizSubmission, error)
}

type QuizHandler struct {
	svc QuizService
}

func NewQuizHandler(svc QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

type GenerateQuizRequest struct {
	CourseID      string `json:"course_id"`
	Title         string `json:"title,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
}

type QuizQuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuizResponse struct {
	ID        string                  `json:"id"`
	CourseID  string                  `json:"course_id"`
	Title     string                  `json:"title"`
	Questions []*QuizQuestionResponse `json:"questions"`
	CreatedAt string                  `json:"created_at"`
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}

type SubmissionResponse struct {
	ID          string `json:"id"`
	QuizID      string `json:"quiz_id"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	SubmittedAt string `json:"submitted_at"`
}

// quizToResponse deliberately omits correct answers and explanations so the
// quiz can be taken over the API.
func quizToResponse(q *domain.Quiz) *QuizResponse {
	resp := &QuizResponse{
		ID:        q.ID,
		CourseID:  q.CourseID,
		Title:     q.Title,
		Questions: make([]*QuizQuestionResponse, 0, len(q.Questions)),
		CreatedAt: q.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, question := range q.Questions {
		resp.Questions = append(resp.Questions, &QuizQuestionResponse{
			Question: question.Question,
			Options:  question.Options,
		})
	}
	return resp
}

func submissionToResponse(s *domain.QuizSubmission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:          s.ID,
		QuizID:      s.QuizID,
		Score:       s.Score,
		Total:       s.Total,
		SubmittedAt: s.SubmittedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseID == "" {
		api.Error(w, http.StatusBadRequest, "course_id is required")
		return
	}

	quiz, err := h.svc.GenerateQuiz(r.Context(), userID, req.CourseID, req.Title, req.QuestionCount)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, quizToResponse(quiz))
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.svc.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, quizToResponse(quiz))
}

func (h *QuizHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.svc.ListQuizzes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		resp = append(resp, quizToResponse(q))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submission, err := h.svc.SubmitQuiz(r.Context(), userID, chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, submissionToResponse(submission))
}

func (h *QuizHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	submissions, err := h.svc.ListSubmissions(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*SubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		resp = append(resp, submissionToResponse(s))
	}
	api.Success(w, http.StatusOK, resp)
}
