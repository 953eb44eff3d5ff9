package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type UploadRepository interface {
	Create(ctx context.Context, u *domain.Upload) error
	GetByID(ctx context.Context, id string) (*domain.Upload, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error)
	UpdateStatus(ctx context.Context, id string, status domain.UploadStatus) error
	SetExtractedText(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
}

// ObjectStore persists raw upload bodies.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// UploadService stores uploaded files, extracts their text and queues them
// for indexing.
type UploadService struct {
	uploadRepo UploadRepository
	storage    ObjectStore
	jobs       IndexJobQueue
	index      SourceIndex
	uuidGen    UUIDGenerator
}

func NewUploadService(uploadRepo UploadRepository, storage ObjectStore, jobs IndexJobQueue, index SourceIndex, uuidGen UUIDGenerator) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		storage:    storage,
		jobs:       jobs,
		index:      index,
		uuidGen:    uuidGen,
	}
}

// CreateUpload stores the file body, extracts its text when the content type
// supports it, and enqueues an index job. Unsupported content types are kept
// in object storage but marked failed so callers can see they were not
// indexed.
func (s *UploadService) CreateUpload(ctx context.Context, userID, filename, contentType string, body io.Reader) (*domain.Upload, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to read upload body", err)
	}

	now := time.Now().UTC()
	upload := &domain.Upload{
		ID:          s.uuidGen.NewString(),
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Status:      domain.UploadStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	upload.StorageKey = userID + "/" + upload.ID + "/" + filename

	if err := domain.ValidateUpload(upload); err != nil {
		return nil, err
	}

	if s.storage != nil {
		if err := s.storage.Put(ctx, upload.StorageKey, bytes.NewReader(data), contentType, upload.SizeBytes); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to store upload", err)
		}
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	if !IsExtractableContentType(contentType) {
		if err := s.uploadRepo.UpdateStatus(ctx, upload.ID, domain.UploadStatusFailed); err != nil {
			return nil, err
		}
		upload.Status = domain.UploadStatusFailed
		return upload, nil
	}

	text := string(data)
	if err := s.uploadRepo.SetExtractedText(ctx, upload.ID, text); err != nil {
		return nil, err
	}
	upload.Status = domain.UploadStatusCompleted
	upload.ExtractedText = text

	job := domain.NewIndexJob(s.uuidGen.NewString(), upload.ID, domain.SourceTypeUpload)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	return upload, nil
}

func (s *UploadService) GetUpload(ctx context.Context, userID, id string) (*domain.Upload, error) {
	return s.ownedUpload(ctx, userID, id)
}

func (s *UploadService) ListUploads(ctx context.Context, userID string) ([]*domain.Upload, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}
	return s.uploadRepo.ListByUser(ctx, userID)
}

// DownloadUpload streams the stored file body. The caller closes the reader.
func (s *UploadService) DownloadUpload(ctx context.Context, userID, id string) (*domain.Upload, io.ReadCloser, error) {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if s.storage == nil {
		return nil, nil, domain.NewDomainError(domain.ErrCodeInvalidOperation, "object storage is not configured")
	}

	body, err := s.storage.Get(ctx, upload.StorageKey)
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to fetch upload body", err)
	}
	return upload, body, nil
}

// DeleteUpload removes the file, its chunks, and the upload record.
func (s *UploadService) DeleteUpload(ctx context.Context, userID, id string) error {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, upload.StorageKey); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to delete stored file", err)
		}
	}

	if err := s.index.DeleteSource(ctx, upload.ID, domain.SourceTypeUpload); err != nil {
		return err
	}

	return s.uploadRepo.Delete(ctx, upload.ID)
}

func (s *UploadService) ownedUpload(ctx context.Context, userID, id string) (*domain.Upload, error) {
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "upload ID is required")
	}

	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upload.UserID != userID {
		return nil, domain.ErrNotUploadOwner
	}
	return upload, nil
}

// IsExtractableContentType reports whether text can be pulled straight out of
// a file body with the given content type.
func IsExtractableContentType(contentType string) bool {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))

	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	switch mediaType {
	case "application/json", "application/xml", "application/x-markdown":
		return true
	}
	return false
}
