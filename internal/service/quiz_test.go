package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, q *domain.Quiz) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.Quiz, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) CreateSubmission(ctx context.Context, s *domain.QuizSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockQuizRepository) ListSubmissionsByUser(ctx context.Context, quizID, userID string) ([]*domain.QuizSubmission, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizSubmission), args.Error(1)
}

const generatedQuizJSON = `[
	{"question": "What does := do?", "options": ["declares and assigns", "compares", "divides", "nothing"], "correct_answer": 0, "explanation": "Short variable declaration."},
	{"question": "Which keyword starts a goroutine?", "options": ["run", "go", "async", "spawn"], "correct_answer": 1}
]`

func TestQuizService_GenerateQuiz(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	courseRepo := new(MockCourseRepository)
	generator := new(MockTextGenerator)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "user-1", Title: "Go basics", Level: domain.CourseLevelBeginner}, nil)
	courseRepo.On("ListChapters", mock.Anything, "c1").
		Return([]*domain.Chapter{{ID: "ch1", CourseID: "c1", Title: "Syntax", Content: "Go uses := for short declarations."}}, nil)
	generator.On("GenerateText", mock.Anything, mock.Anything).Return("```json\n"+generatedQuizJSON+"\n```", nil)
	quizRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewQuizService(quizRepo, courseRepo, generator, &DefaultUUIDGenerator{})
	quiz, err := svc.GenerateQuiz(context.Background(), "user-1", "c1", "", 2)
	require.NoError(t, err)

	assert.Equal(t, "Go basics quiz", quiz.Title)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 0, quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, "go", quiz.Questions[1].Options[1])

	prompt := generator.Calls[0].Arguments.String(1)
	assert.Contains(t, prompt, "Number of questions: 2")
	assert.Contains(t, prompt, "Go uses := for short declarations.")
}

func TestQuizService_GenerateQuiz_NonOwner(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "someone-else", Title: "X", Level: domain.CourseLevelBeginner}, nil)

	svc := NewQuizService(new(MockQuizRepository), courseRepo, new(MockTextGenerator), &DefaultUUIDGenerator{})
	_, err := svc.GenerateQuiz(context.Background(), "user-1", "c1", "", 5)
	assert.ErrorIs(t, err, domain.ErrNotCourseOwner)
}

func TestQuizService_GenerateQuiz_NoGenerator(t *testing.T) {
	svc := NewQuizService(new(MockQuizRepository), new(MockCourseRepository), nil, &DefaultUUIDGenerator{})
	_, err := svc.GenerateQuiz(context.Background(), "user-1", "c1", "", 5)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalidOperation, domainErr.Code)
}

func TestQuizService_GenerateQuiz_MalformedModelOutput(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	courseRepo := new(MockCourseRepository)
	generator := new(MockTextGenerator)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "user-1", Title: "X", Level: domain.CourseLevelBeginner}, nil)
	courseRepo.On("ListChapters", mock.Anything, "c1").Return([]*domain.Chapter{}, nil)
	generator.On("GenerateText", mock.Anything, mock.Anything).Return("Sure! Here's a quiz for you:", nil)

	svc := NewQuizService(quizRepo, courseRepo, generator, &DefaultUUIDGenerator{})
	_, err := svc.GenerateQuiz(context.Background(), "user-1", "c1", "", 3)
	require.Error(t, err)
	quizRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuizService_SubmitQuiz(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	quizRepo.On("GetByID", mock.Anything, "q1").Return(&domain.Quiz{
		ID:       "q1",
		CourseID: "c1",
		Title:    "Quiz",
		Questions: []domain.QuizQuestion{
			{Question: "a", Options: []string{"x", "y"}, CorrectAnswer: 0},
			{Question: "b", Options: []string{"x", "y"}, CorrectAnswer: 1},
			{Question: "c", Options: []string{"x", "y"}, CorrectAnswer: 1},
		},
	}, nil)
	quizRepo.On("CreateSubmission", mock.Anything, mock.Anything).Return(nil)

	svc := NewQuizService(quizRepo, new(MockCourseRepository), nil, &DefaultUUIDGenerator{})
	submission, err := svc.SubmitQuiz(context.Background(), "user-1", "q1", []int{0, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, 2, submission.Score)
	assert.Equal(t, 3, submission.Total)
}

func TestQuizService_SubmitQuiz_EmptyQuiz(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	quizRepo.On("GetByID", mock.Anything, "q1").Return(&domain.Quiz{ID: "q1"}, nil)

	svc := NewQuizService(quizRepo, new(MockCourseRepository), nil, &DefaultUUIDGenerator{})
	_, err := svc.SubmitQuiz(context.Background(), "user-1", "q1", nil)
	assert.ErrorIs(t, err, domain.ErrQuizNotGradable)
}

func TestParseQuizQuestions(t *testing.T) {
	questions, err := parseQuizQuestions(generatedQuizJSON)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	_, err = parseQuizQuestions(`[{"question": "", "options": ["a","b"], "correct_answer": 0}]`)
	assert.Error(t, err)

	_, err = parseQuizQuestions(`[{"question": "q", "options": ["a","b"], "correct_answer": 5}]`)
	assert.Error(t, err)

	_, err = parseQuizQuestions(`[]`)
	assert.Error(t, err)
}
