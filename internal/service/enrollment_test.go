package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByCourseAndUser(ctx context.Context, courseID, userID string) (*domain.Enrollment, error) {
	args := m.Called(ctx, courseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, courseID, userID string) error {
	args := m.Called(ctx, courseID, userID)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedAt *time.Time) error {
	args := m.Called(ctx, courseID, userID, progress, completedAt)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) ListEnrolledCourses(ctx context.Context, userID string) ([]*domain.EnrolledCourse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EnrolledCourse), args.Error(1)
}

func (m *MockEnrollmentRepository) ListCourseStudents(ctx context.Context, courseID string) ([]*domain.StudentEnrollment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudentEnrollment), args.Error(1)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "instructor-1", Title: "Go basics"}, nil)
	enrollmentRepo.On("GetByCourseAndUser", mock.Anything, "c1", "student-1").
		Return(nil, domain.ErrEnrollmentNotFound)
	enrollmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewEnrollmentService(enrollmentRepo, courseRepo, &DefaultUUIDGenerator{})
	enrollment, err := svc.Enroll(context.Background(), "student-1", "c1")
	require.NoError(t, err)

	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, "c1", enrollment.CourseID)
	assert.Equal(t, "student-1", enrollment.UserID)
	assert.Zero(t, enrollment.Progress)
	assert.False(t, enrollment.Completed())
}

func TestEnrollmentService_Enroll_OwnCourse(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "user-1", Title: "Go basics"}, nil)

	svc := NewEnrollmentService(enrollmentRepo, courseRepo, &DefaultUUIDGenerator{})
	_, err := svc.Enroll(context.Background(), "user-1", "c1")
	assert.ErrorIs(t, err, domain.ErrOwnCourseEnroll)
	enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnrollmentService_Enroll_Twice(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "instructor-1", Title: "Go basics"}, nil)
	enrollmentRepo.On("GetByCourseAndUser", mock.Anything, "c1", "student-1").
		Return(&domain.Enrollment{ID: "e1", CourseID: "c1", UserID: "student-1"}, nil)

	svc := NewEnrollmentService(enrollmentRepo, courseRepo, &DefaultUUIDGenerator{})
	_, err := svc.Enroll(context.Background(), "student-1", "c1")
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
	enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnrollmentService_Enroll_CourseMissing(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrCourseNotFound)

	svc := NewEnrollmentService(new(MockEnrollmentRepository), courseRepo, &DefaultUUIDGenerator{})
	_, err := svc.Enroll(context.Background(), "student-1", "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestEnrollmentService_Unenroll_NotEnrolled(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	enrollmentRepo.On("Delete", mock.Anything, "c1", "student-1").Return(domain.ErrEnrollmentNotFound)

	svc := NewEnrollmentService(enrollmentRepo, new(MockCourseRepository), &DefaultUUIDGenerator{})
	err := svc.Unenroll(context.Background(), "student-1", "c1")
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)
}

func TestEnrollmentService_UpdateProgress_MarksCompleted(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)

	enrollmentRepo.On("UpdateProgress", mock.Anything, "c1", "student-1", 100.0, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil
	})).Return(nil)
	now := time.Now().UTC()
	enrollmentRepo.On("GetByCourseAndUser", mock.Anything, "c1", "student-1").
		Return(&domain.Enrollment{ID: "e1", CourseID: "c1", UserID: "student-1", Progress: 100, CompletedAt: &now}, nil)

	svc := NewEnrollmentService(enrollmentRepo, new(MockCourseRepository), &DefaultUUIDGenerator{})
	enrollment, err := svc.UpdateProgress(context.Background(), "student-1", "c1", 100)
	require.NoError(t, err)
	assert.True(t, enrollment.Completed())
}

func TestEnrollmentService_UpdateProgress_PartialStaysOpen(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)

	enrollmentRepo.On("UpdateProgress", mock.Anything, "c1", "student-1", 40.0, (*time.Time)(nil)).Return(nil)
	enrollmentRepo.On("GetByCourseAndUser", mock.Anything, "c1", "student-1").
		Return(&domain.Enrollment{ID: "e1", CourseID: "c1", UserID: "student-1", Progress: 40}, nil)

	svc := NewEnrollmentService(enrollmentRepo, new(MockCourseRepository), &DefaultUUIDGenerator{})
	enrollment, err := svc.UpdateProgress(context.Background(), "student-1", "c1", 40)
	require.NoError(t, err)
	assert.False(t, enrollment.Completed())
}

func TestEnrollmentService_UpdateProgress_OutOfRange(t *testing.T) {
	svc := NewEnrollmentService(new(MockEnrollmentRepository), new(MockCourseRepository), &DefaultUUIDGenerator{})

	for _, progress := range []float64{-1, 100.5} {
		_, err := svc.UpdateProgress(context.Background(), "student-1", "c1", progress)
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	}
}

func TestEnrollmentService_ListCourseStudents_NonOwner(t *testing.T) {
	courseRepo := new(MockCourseRepository)
	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "someone-else"}, nil)

	svc := NewEnrollmentService(new(MockEnrollmentRepository), courseRepo, &DefaultUUIDGenerator{})
	_, err := svc.ListCourseStudents(context.Background(), "user-1", "c1")
	assert.ErrorIs(t, err, domain.ErrNotCourseOwner)
}

func TestEnrollmentService_ListCourseStudents(t *testing.T) {
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)

	courseRepo.On("GetByID", mock.Anything, "c1").
		Return(&domain.Course{ID: "c1", OwnerID: "user-1"}, nil)
	enrollmentRepo.On("ListCourseStudents", mock.Anything, "c1").
		Return([]*domain.StudentEnrollment{
			{UserID: "s1", Name: "Ada", Email: "ada@example.com", Progress: 75},
		}, nil)

	svc := NewEnrollmentService(enrollmentRepo, courseRepo, &DefaultUUIDGenerator{})
	students, err := svc.ListCourseStudents(context.Background(), "user-1", "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ada", students[0].Name)
}
