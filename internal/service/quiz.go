package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type QuizRepository interface {
	Create(ctx context.Context, q *domain.Quiz) error
	GetByID(ctx context.Context, id string) (*domain.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Quiz, error)
	CreateSubmission(ctx context.Context, s *domain.QuizSubmission) error
	ListSubmissionsByUser(ctx context.Context, quizID, userID string) ([]*domain.QuizSubmission, error)
}

// QuizService generates multiple-choice quizzes from course material and
// grades submissions.
type QuizService struct {
	quizRepo   QuizRepository
	courseRepo CourseRepository
	generator  TextGenerator
	uuidGen    UUIDGenerator
}

func NewQuizService(quizRepo QuizRepository, courseRepo CourseRepository, generator TextGenerator, uuidGen UUIDGenerator) *QuizService {
	return &QuizService{
		quizRepo:   quizRepo,
		courseRepo: courseRepo,
		generator:  generator,
		uuidGen:    uuidGen,
	}
}

// GenerateQuiz asks the model for questionCount multiple-choice questions
// over a course's material and stores the result. Only the course owner can
// generate quizzes.
func (s *QuizService) GenerateQuiz(ctx context.Context, userID, courseID, title string, questionCount int) (*domain.Quiz, error) {
	if s.generator == nil {
		return nil, domain.NewDomainError(domain.ErrCodeInvalidOperation, "text generation is not configured")
	}
	if questionCount <= 0 {
		questionCount = 5
	}
	if questionCount > 20 {
		questionCount = 20
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, domain.ErrNotCourseOwner
	}

	chapters, err := s.courseRepo.ListChapters(ctx, courseID)
	if err != nil {
		return nil, err
	}

	prompt := buildQuizPrompt(course, chapters, questionCount)
	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "quiz generation failed", err)
	}

	questions, err := parseQuizQuestions(raw)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "quiz generation returned malformed questions", err)
	}

	if title == "" {
		title = course.Title + " quiz"
	}

	quiz := &domain.Quiz{
		ID:        s.uuidGen.NewString(),
		CourseID:  courseID,
		Title:     title,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "quiz ID is required")
	}
	return s.quizRepo.GetByID(ctx, id)
}

func (s *QuizService) ListQuizzes(ctx context.Context, courseID string) ([]*domain.Quiz, error) {
	if courseID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}
	return s.quizRepo.ListByCourse(ctx, courseID)
}

// SubmitQuiz grades the answers and stores the attempt.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*domain.QuizSubmission, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	score, total, err := domain.GradeQuiz(quiz, answers)
	if err != nil {
		return nil, err
	}

	submission := &domain.QuizSubmission{
		ID:          s.uuidGen.NewString(),
		QuizID:      quiz.ID,
		UserID:      userID,
		Answers:     answers,
		Score:       score,
		Total:       total,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.quizRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}

	return submission, nil
}

func (s *QuizService) ListSubmissions(ctx context.Context, userID, quizID string) ([]*domain.QuizSubmission, error) {
	if quizID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "quiz ID is required")
	}
	return s.quizRepo.ListSubmissionsByUser(ctx, quizID, userID)
}

func buildQuizPrompt(course *domain.Course, chapters []*domain.Chapter, questionCount int) string {
	var b strings.Builder
	b.WriteString("Write a multiple-choice quiz as a JSON array. Each element must have the keys ")
	b.WriteString(`"question", "options" (exactly 4 strings), "correct_answer" (0-based index into options) and "explanation".`)
	b.WriteString("\nReturn only the JSON array, no surrounding prose.\n")
	b.WriteString("Number of questions: ")
	b.WriteString(strconv.Itoa(questionCount))
	b.WriteString("\n\nCourse material:\n")
	b.WriteString(BuildCourseContent(course))
	for _, ch := range chapters {
		b.WriteString("\n\nChapter: ")
		b.WriteString(ch.Title)
		b.WriteString("\n")
		b.WriteString(ch.Content)
	}
	return b.String()
}

// parseQuizQuestions decodes the model's JSON answer, tolerating markdown
// code fences around the array.
func parseQuizQuestions(raw string) ([]domain.QuizQuestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrQuizNotGradable
	}

	for i, q := range questions {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, domain.NewDomainError(domain.ErrCodeInternalError, "generated question is incomplete")
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, domain.NewDomainError(domain.ErrCodeInternalError, "generated answer index is out of range")
		}
		questions[i] = q
	}
	return questions, nil
}
