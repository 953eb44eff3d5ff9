package domain

import "time"

// CourseLevel represents the difficulty of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Course represents an authored course.
type Course struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Outline     string
	Level       CourseLevel
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chapter represents a single chapter within a course.
type Chapter struct {
	ID        string
	CourseID  string
	Title     string
	Content   string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCourse creates a Course with generated timestamps.
func NewCourse(id, ownerID, title, description string) *Course {
	now := time.Now().UTC()
	return &Course{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Level:       CourseLevelBeginner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidateCourse validates a Course instance.
func ValidateCourse(c *Course) error {
	if c == nil {
		return NewDomainError(ErrCodeValidation, "course cannot be nil")
	}
	if c.ID == "" {
		return NewDomainError(ErrCodeValidation, "course ID is required")
	}
	if c.OwnerID == "" {
		return NewDomainError(ErrCodeValidation, "course OwnerID is required")
	}
	if c.Title == "" {
		return NewDomainError(ErrCodeValidation, "course Title is required")
	}
	if !isValidCourseLevel(c.Level) {
		return ErrInvalidCourseLevel
	}
	return nil
}

// ValidateChapter validates a Chapter instance.
func ValidateChapter(ch *Chapter) error {
	if ch == nil {
		return NewDomainError(ErrCodeValidation, "chapter cannot be nil")
	}
	if ch.ID == "" {
		return NewDomainError(ErrCodeValidation, "chapter ID is required")
	}
	if ch.CourseID == "" {
		return NewDomainError(ErrCodeValidation, "chapter CourseID is required")
	}
	if ch.Title == "" {
		return NewDomainError(ErrCodeValidation, "chapter Title is required")
	}
	if ch.Position < 0 {
		return NewDomainError(ErrCodeValidation, "chapter Position cannot be negative")
	}
	return nil
}

func isValidCourseLevel(l CourseLevel) bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced:
		return true
	}
	return false
}
