package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

var ErrIndexJobNotFound = errors.New("index job not found")

type IndexJobRepository struct {
	db dbtx
}

func NewIndexJobRepository(pool *pgxpool.Pool) *IndexJobRepository {
	return &IndexJobRepository{db: pool}
}

func NewIndexJobRepositoryWithTx(tx pgx.Tx) *IndexJobRepository {
	return &IndexJobRepository{db: tx}
}

func (r *IndexJobRepository) Create(ctx context.Context, job *domain.IndexJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO index_jobs (id, source_id, source_type, status, retries, error, created_at, started_at, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.SourceID, job.SourceType, job.Status, job.Retries, job.Error, job.CreatedAt, job.StartedAt, job.ProcessedAt,
	)
	return err
}

func (r *IndexJobRepository) GetByID(ctx context.Context, id string) (*domain.IndexJob, error) {
	var job domain.IndexJob
	var errMsg pgtype.Text
	err := r.db.QueryRow(ctx,
		`SELECT id, source_id, source_type, status, retries, error, created_at, started_at, processed_at
		 FROM index_jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.SourceID, &job.SourceType, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.StartedAt, &job.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIndexJobNotFound
		}
		return nil, err
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	return &job, nil
}

// ClaimPending atomically moves up to limit pending jobs to processing and
// returns them. Concurrent workers skip each other's claims.
func (r *IndexJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.IndexJob, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`WITH cte AS (
			 SELECT id
			 FROM index_jobs
			 WHERE status = $1
			 ORDER BY created_at ASC
			 FOR UPDATE SKIP LOCKED
			 LIMIT $2
		 )
		 UPDATE index_jobs
		 SET status = $3,
		     error = NULL,
		     started_at = NOW(),
		     processed_at = NULL
		 FROM cte
		 WHERE index_jobs.id = cte.id
		 RETURNING index_jobs.id, index_jobs.source_id, index_jobs.source_type, index_jobs.status,
		           index_jobs.retries, index_jobs.error, index_jobs.created_at, index_jobs.started_at,
		           index_jobs.processed_at`,
		domain.IndexJobStatusPending, limit, domain.IndexJobStatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.IndexJob
	for rows.Next() {
		var job domain.IndexJob
		var errMsg pgtype.Text
		if err := rows.Scan(&job.ID, &job.SourceID, &job.SourceType, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.StartedAt, &job.ProcessedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			job.Error = errMsg.String
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (r *IndexJobRepository) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE index_jobs SET status = $1, error = NULL, processed_at = $2 WHERE id = $3`,
		domain.IndexJobStatusCompleted, now, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIndexJobNotFound
	}
	return nil
}

func (r *IndexJobRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE index_jobs
		 SET status = $1, error = $2, retries = retries + 1, processed_at = $3
		 WHERE id = $4`,
		domain.IndexJobStatusFailed, errMsg, now, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIndexJobNotFound
	}
	return nil
}

// ReclaimStale marks processing jobs claimed more than olderThan ago as
// failed, counting a retry. A worker that died mid-batch leaves its claims in
// processing forever otherwise; the next RequeueFailed pass retries them if
// they are still under budget.
func (r *IndexJobRepository) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := r.db.Exec(ctx,
		`UPDATE index_jobs
		 SET status = $1, error = $2, retries = retries + 1, processed_at = $3
		 WHERE status = $4 AND started_at < $5`,
		domain.IndexJobStatusFailed, "abandoned by worker", time.Now().UTC(),
		domain.IndexJobStatusProcessing, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RequeueFailed moves failed jobs below the retry budget back to pending.
func (r *IndexJobRepository) RequeueFailed(ctx context.Context, maxRetries int32) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE index_jobs SET status = $1 WHERE status = $2 AND retries < $3`,
		domain.IndexJobStatusPending, domain.IndexJobStatusFailed, maxRetries,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *IndexJobRepository) CountByStatus(ctx context.Context) (map[domain.IndexJobStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM index_jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.IndexJobStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.IndexJobStatus(status)] = count
	}
	return counts, rows.Err()
}
