package service

import (
	"context"
	"errors"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByCourseAndUser(ctx context.Context, courseID, userID string) (*domain.Enrollment, error)
	Delete(ctx context.Context, courseID, userID string) error
	UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedAt *time.Time) error
	ListEnrolledCourses(ctx context.Context, userID string) ([]*domain.EnrolledCourse, error)
	ListCourseStudents(ctx context.Context, courseID string) ([]*domain.StudentEnrollment, error)
}

// EnrollmentService manages course membership and progress tracking.
type EnrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
	uuidGen        UUIDGenerator
}

func NewEnrollmentService(enrollmentRepo EnrollmentRepository, courseRepo CourseRepository, uuidGen UUIDGenerator) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		uuidGen:        uuidGen,
	}
}

// Enroll adds the user to a course. Owners cannot enroll in their own
// courses, and enrolling twice is rejected.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	if courseID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID == userID {
		return nil, domain.ErrOwnCourseEnroll
	}

	if _, err := s.enrollmentRepo.GetByCourseAndUser(ctx, courseID, userID); err == nil {
		return nil, domain.ErrAlreadyEnrolled
	} else if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, err
	}

	enrollment := domain.NewEnrollment(s.uuidGen.NewString(), courseID, userID)
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Unenroll removes the user from a course.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID string) error {
	if courseID == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}
	return s.enrollmentRepo.Delete(ctx, courseID, userID)
}

// UpdateProgress records how far the student has gotten. Reaching 100
// marks the course completed.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, userID, courseID string, progress float64) (*domain.Enrollment, error) {
	if courseID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if progress >= 100 {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.enrollmentRepo.UpdateProgress(ctx, courseID, userID, progress, completedAt); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.GetByCourseAndUser(ctx, courseID, userID)
}

func (s *EnrollmentService) ListEnrolledCourses(ctx context.Context, userID string) ([]*domain.EnrolledCourse, error) {
	return s.enrollmentRepo.ListEnrolledCourses(ctx, userID)
}

// ListCourseStudents returns a course's roster. Only the owner may see it.
func (s *EnrollmentService) ListCourseStudents(ctx context.Context, userID, courseID string) ([]*domain.StudentEnrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, domain.ErrNotCourseOwner
	}
	return s.enrollmentRepo.ListCourseStudents(ctx, courseID)
}
