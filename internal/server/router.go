package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub-ai/studyhub/internal/api"
	"github.com/studyhub-ai/studyhub/internal/api/handlers"
	"github.com/studyhub-ai/studyhub/internal/api/middleware"
)

type RouterConfig struct {
	TokenValidator middleware.TokenValidator
	AuthHandler    *handlers.AuthHandler
	CourseHandler  *handlers.CourseHandler
	UploadHandler  *handlers.UploadHandler
	ChatHandler    *handlers.ChatHandler
	SearchHandler  *handlers.SearchHandler
	QuizHandler    *handlers.QuizHandler

	EnrollmentHandler *handlers.EnrollmentHandler
	DashboardHandler  *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", cfg.AuthHandler.Register)
	r.Post("/auth/login", cfg.AuthHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.TokenValidator))

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Get("/auth/me", cfg.AuthHandler.Me)

		r.Route("/courses", func(r chi.Router) {
			r.Post("/", cfg.CourseHandler.Create)
			r.Get("/", cfg.CourseHandler.List)
			r.Get("/{id}", cfg.CourseHandler.Get)
			r.Put("/{id}", cfg.CourseHandler.Update)
			r.Delete("/{id}", cfg.CourseHandler.Delete)
			r.Post("/{id}/chapters", cfg.CourseHandler.AddChapter)
			r.Get("/{id}/chapters", cfg.CourseHandler.ListChapters)
			r.Get("/{id}/quizzes", cfg.QuizHandler.ListByCourse)
			r.Post("/{id}/enroll", cfg.EnrollmentHandler.Enroll)
			r.Delete("/{id}/enroll", cfg.EnrollmentHandler.Unenroll)
			r.Put("/{id}/progress", cfg.EnrollmentHandler.UpdateProgress)
			r.Get("/{id}/students", cfg.EnrollmentHandler.ListStudents)
			r.Get("/{id}/analytics", cfg.DashboardHandler.CourseAnalytics)
		})

		r.Get("/enrollments", cfg.EnrollmentHandler.ListEnrolled)
		r.Get("/dashboard", cfg.DashboardHandler.StudentDashboard)
		r.Get("/dashboard/instructor", cfg.DashboardHandler.InstructorDashboard)
		r.Get("/leaderboard", cfg.DashboardHandler.Leaderboard)

		r.Route("/chapters", func(r chi.Router) {
			r.Get("/{chapterID}", cfg.CourseHandler.GetChapter)
			r.Put("/{chapterID}", cfg.CourseHandler.UpdateChapter)
			r.Delete("/{chapterID}", cfg.CourseHandler.DeleteChapter)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/", cfg.UploadHandler.Create)
			r.Get("/", cfg.UploadHandler.List)
			r.Get("/{id}", cfg.UploadHandler.Get)
			r.Get("/{id}/download", cfg.UploadHandler.Download)
			r.Delete("/{id}", cfg.UploadHandler.Delete)
		})

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", cfg.ChatHandler.CreateSession)
			r.Get("/", cfg.ChatHandler.ListSessions)
			r.Get("/{id}", cfg.ChatHandler.GetSession)
			r.Delete("/{id}", cfg.ChatHandler.DeleteSession)
			r.Get("/{id}/messages", cfg.ChatHandler.ListMessages)
			r.Post("/{id}/messages", cfg.ChatHandler.SendMessage)
		})

		r.Post("/search", cfg.SearchHandler.Search)
		r.Post("/context", cfg.SearchHandler.Context)

		r.Route("/quizzes", func(r chi.Router) {
			r.Post("/", cfg.QuizHandler.Generate)
			r.Get("/{id}", cfg.QuizHandler.Get)
			r.Post("/{id}/submissions", cfg.QuizHandler.Submit)
			r.Get("/{id}/submissions", cfg.QuizHandler.ListSubmissions)
		})
	})

	return r
}
