package domain

import (
	"fmt"
	"time"
)

// Enrollment links a student to a course. Progress runs from 0 to 100;
// CompletedAt is set when progress reaches 100.
type Enrollment struct {
	ID          string
	CourseID    string
	UserID      string
	Progress    float64
	EnrolledAt  time.Time
	CompletedAt *time.Time
}

// NewEnrollment creates an Enrollment with zero progress.
func NewEnrollment(id, courseID, userID string) *Enrollment {
	return &Enrollment{
		ID:         id,
		CourseID:   courseID,
		UserID:     userID,
		EnrolledAt: time.Now().UTC(),
	}
}

// Completed reports whether the student finished the course.
func (e *Enrollment) Completed() bool {
	return e.CompletedAt != nil
}

// ValidateProgress checks a progress percentage.
func ValidateProgress(progress float64) error {
	if progress < 0 || progress > 100 {
		return NewDomainError(ErrCodeValidation, fmt.Sprintf("progress must be between 0 and 100, got %.1f", progress))
	}
	return nil
}

// EnrolledCourse pairs a course with the student's enrollment state, as
// listed on the student dashboard.
type EnrolledCourse struct {
	Course      Course
	Progress    float64
	EnrolledAt  time.Time
	CompletedAt *time.Time
}

// StudentEnrollment is the instructor's view of one enrolled student.
type StudentEnrollment struct {
	UserID      string
	Name        string
	Email       string
	Progress    float64
	EnrolledAt  time.Time
	CompletedAt *time.Time
}
