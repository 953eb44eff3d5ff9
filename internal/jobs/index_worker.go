package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

const (
	// MaxRetries is the retry budget for a failing index job.
	MaxRetries = 3

	claimBatchSize = 25

	// staleJobAge is how long a job may sit in processing before it is
	// assumed abandoned by a dead worker.
	staleJobAge = 10 * time.Minute
)

// IndexJobRepository defines the persistence interface for index jobs.
type IndexJobRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]*domain.IndexJob, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error)
	RequeueFailed(ctx context.Context, maxRetries int32) (int64, error)
}

// CourseSource loads course material for indexing.
type CourseSource interface {
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetChapterByID(ctx context.Context, id string) (*domain.Chapter, error)
}

// UploadSource loads uploads for indexing.
type UploadSource interface {
	GetByID(ctx context.Context, id string) (*domain.Upload, error)
}

// SourceIndexer runs the chunk-embed-store pipeline for one source.
type SourceIndexer interface {
	IndexCourse(ctx context.Context, course *domain.Course, chapters []*domain.Chapter) error
	IndexChapter(ctx context.Context, ch *domain.Chapter) (bool, error)
	IndexUpload(ctx context.Context, upload *domain.Upload) (bool, error)
	DeleteSource(ctx context.Context, sourceID string, sourceType domain.SourceType) error
}

// IndexWorker drains queued index jobs, loading each job's source and pushing
// it through the indexing pipeline.
type IndexWorker struct {
	jobRepo IndexJobRepository
	courses CourseSource
	uploads UploadSource
	indexer SourceIndexer
}

func NewIndexWorker(jobRepo IndexJobRepository, courses CourseSource, uploads UploadSource, indexer SourceIndexer) *IndexWorker {
	return &IndexWorker{
		jobRepo: jobRepo,
		courses: courses,
		uploads: uploads,
		indexer: indexer,
	}
}

// ProcessJobs implements the JobProcessor interface. Stale claims from dead
// workers are failed first, then failed jobs below the retry budget are
// requeued so transient errors heal on their own.
func (w *IndexWorker) ProcessJobs(ctx context.Context) error {
	reclaimed, err := w.jobRepo.ReclaimStale(ctx, staleJobAge)
	if err != nil {
		return fmt.Errorf("failed to reclaim stale jobs: %w", err)
	}
	if reclaimed > 0 {
		log.Printf("reclaimed %d stale index jobs", reclaimed)
	}

	requeued, err := w.jobRepo.RequeueFailed(ctx, MaxRetries)
	if err != nil {
		return fmt.Errorf("failed to requeue jobs: %w", err)
	}
	if requeued > 0 {
		log.Printf("requeued %d failed index jobs", requeued)
	}

	jobs, err := w.jobRepo.ClaimPending(ctx, claimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}

	log.Printf("processing %d index jobs", len(jobs))

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("index job %s (%s %s) failed: %v", job.ID, job.SourceType, job.SourceID, err)
			if markErr := w.jobRepo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				log.Printf("failed to mark job %s failed: %v", job.ID, markErr)
			}
			continue
		}
		if err := w.jobRepo.MarkCompleted(ctx, job.ID); err != nil {
			log.Printf("failed to mark job %s completed: %v", job.ID, err)
		}
	}

	return nil
}

// processJob indexes one source. A source deleted since the job was enqueued
// is not an error: its chunks are dropped and the job completes.
func (w *IndexWorker) processJob(ctx context.Context, job *domain.IndexJob) error {
	switch job.SourceType {
	case domain.SourceTypeCourse:
		course, err := w.courses.GetByID(ctx, job.SourceID)
		if errors.Is(err, domain.ErrCourseNotFound) {
			return w.indexer.DeleteSource(ctx, job.SourceID, job.SourceType)
		}
		if err != nil {
			return err
		}
		return w.indexer.IndexCourse(ctx, course, nil)

	case domain.SourceTypeChapter:
		chapter, err := w.courses.GetChapterByID(ctx, job.SourceID)
		if errors.Is(err, domain.ErrChapterNotFound) {
			return w.indexer.DeleteSource(ctx, job.SourceID, job.SourceType)
		}
		if err != nil {
			return err
		}
		_, err = w.indexer.IndexChapter(ctx, chapter)
		return err

	case domain.SourceTypeUpload:
		upload, err := w.uploads.GetByID(ctx, job.SourceID)
		if errors.Is(err, domain.ErrUploadNotFound) {
			return w.indexer.DeleteSource(ctx, job.SourceID, job.SourceType)
		}
		if err != nil {
			return err
		}
		_, err = w.indexer.IndexUpload(ctx, upload)
		return err

	default:
		return fmt.Errorf("unknown source type %q", job.SourceType)
	}
}
