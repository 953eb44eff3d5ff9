package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrInvalidSourceType     = NewDomainError(ErrCodeValidation, "invalid source type")
	ErrInvalidCourseLevel    = NewDomainError(ErrCodeValidation, "invalid course level")
	ErrInvalidChatMode       = NewDomainError(ErrCodeValidation, "invalid chat mode")
	ErrInvalidUploadStatus   = NewDomainError(ErrCodeValidation, "invalid upload status")
	ErrInvalidIndexJobStatus = NewDomainError(ErrCodeValidation, "invalid index job status")
	ErrMissingRequiredField  = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrCourseNotFound      = NewDomainError(ErrCodeNotFound, "course not found")
	ErrChapterNotFound     = NewDomainError(ErrCodeNotFound, "chapter not found")
	ErrUploadNotFound      = NewDomainError(ErrCodeNotFound, "upload not found")
	ErrUserNotFound        = NewDomainError(ErrCodeNotFound, "user not found")
	ErrChatSessionNotFound = NewDomainError(ErrCodeNotFound, "chat session not found")
	ErrQuizNotFound        = NewDomainError(ErrCodeNotFound, "quiz not found")
	ErrEnrollmentNotFound  = NewDomainError(ErrCodeNotFound, "enrollment not found")
)

// Already exists errors
var (
	ErrUserAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "a user with this email already exists")
	ErrAlreadyEnrolled   = NewDomainError(ErrCodeAlreadyExists, "already enrolled in this course")
)

// Authorization errors
var (
	ErrInvalidToken       = NewDomainError(ErrCodeUnauthorized, "invalid access token")
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorized, "invalid email or password")
	ErrTokenRevoked       = NewDomainError(ErrCodeUnauthorized, "access token has been revoked")
	ErrNotCourseOwner     = NewDomainError(ErrCodeForbidden, "not the owner of this course")
	ErrNotUploadOwner     = NewDomainError(ErrCodeForbidden, "not the owner of this upload")
)

// Operation errors
var (
	ErrUploadNotProcessed = NewDomainError(ErrCodeInvalidOperation, "upload has no extracted text yet")
	ErrQuizNotGradable    = NewDomainError(ErrCodeInvalidOperation, "quiz has no questions to grade")
	ErrOwnCourseEnroll    = NewDomainError(ErrCodeInvalidOperation, "course owners cannot enroll in their own course")
)
