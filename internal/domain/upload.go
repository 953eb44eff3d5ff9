package domain

import "time"

// UploadStatus represents the processing state of an uploaded file.
type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
)

// Upload represents a user-uploaded file and its extracted text.
type Upload struct {
	ID            string
	UserID        string
	Filename      string
	ContentType   string
	StorageKey    string
	SizeBytes     int64
	Status        UploadStatus
	ExtractedText string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateUpload validates an Upload instance.
func ValidateUpload(u *Upload) error {
	if u == nil {
		return NewDomainError(ErrCodeValidation, "upload cannot be nil")
	}
	if u.ID == "" {
		return NewDomainError(ErrCodeValidation, "upload ID is required")
	}
	if u.UserID == "" {
		return NewDomainError(ErrCodeValidation, "upload UserID is required")
	}
	if u.Filename == "" {
		return NewDomainError(ErrCodeValidation, "upload Filename is required")
	}
	if u.SizeBytes < 0 {
		return NewDomainError(ErrCodeValidation, "upload SizeBytes cannot be negative")
	}
	if !isValidUploadStatus(u.Status) {
		return ErrInvalidUploadStatus
	}
	return nil
}

func isValidUploadStatus(s UploadStatus) bool {
	switch s {
	case UploadStatusPending, UploadStatusProcessing, UploadStatusCompleted, UploadStatusFailed:
		return true
	}
	return false
}
