package domain

import (
	"fmt"
	"time"
)

// IndexJobStatus represents the status of an index job
type IndexJobStatus string

const (
	IndexJobStatusPending    IndexJobStatus = "pending"
	IndexJobStatusProcessing IndexJobStatus = "processing"
	IndexJobStatusCompleted  IndexJobStatus = "completed"
	IndexJobStatusFailed     IndexJobStatus = "failed"
)

// IndexJob represents an async reindexing job for a single source. Jobs are
// enqueued when course or upload content changes and drained by the
// background worker.
type IndexJob struct {
	ID          string
	SourceID    string
	SourceType  SourceType
	Status      IndexJobStatus
	Retries     int32
	Error       string
	CreatedAt   time.Time
	StartedAt   *time.Time
	ProcessedAt *time.Time
}

// NewIndexJob creates a pending IndexJob for a source.
func NewIndexJob(id, sourceID string, sourceType SourceType) *IndexJob {
	return &IndexJob{
		ID:         id,
		SourceID:   sourceID,
		SourceType: sourceType,
		Status:     IndexJobStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// ValidateIndexJob validates an IndexJob instance
func ValidateIndexJob(j *IndexJob) error {
	if j == nil {
		return fmt.Errorf("index job cannot be nil")
	}

	if j.ID == "" {
		return fmt.Errorf("index job ID is required")
	}

	if j.SourceID == "" {
		return fmt.Errorf("index job SourceID is required")
	}

	if !IsValidSourceType(j.SourceType) {
		return fmt.Errorf("index job SourceType is invalid: %s", j.SourceType)
	}

	if !isValidIndexJobStatus(j.Status) {
		return fmt.Errorf("index job Status is invalid: %s", j.Status)
	}

	if j.Retries < 0 {
		return fmt.Errorf("index job Retries cannot be negative")
	}

	return nil
}

// isValidIndexJobStatus checks if an IndexJobStatus is valid
func isValidIndexJobStatus(s IndexJobStatus) bool {
	switch s {
	case IndexJobStatusPending, IndexJobStatusProcessing,
		IndexJobStatusCompleted, IndexJobStatusFailed:
		return true
	}
	return false
}
