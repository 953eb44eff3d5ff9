package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type UploadRepository struct {
	db dbtx
}

func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{db: pool}
}

func NewUploadRepositoryWithTx(tx pgx.Tx) *UploadRepository {
	return &UploadRepository{db: tx}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO uploads (id, user_id, filename, content_type, storage_key, size_bytes, status, extracted_text, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.UserID, u.Filename, u.ContentType, u.StorageKey, u.SizeBytes, u.Status, nullableString(u.ExtractedText), u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	var u domain.Upload
	var extracted *string
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, filename, content_type, storage_key, size_bytes, status, extracted_text, created_at, updated_at
		 FROM uploads WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.UserID, &u.Filename, &u.ContentType, &u.StorageKey, &u.SizeBytes, &u.Status, &extracted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUploadNotFound
		}
		return nil, err
	}
	if extracted != nil {
		u.ExtractedText = *extracted
	}
	return &u, nil
}

func (r *UploadRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Upload, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, filename, content_type, storage_key, size_bytes, status, extracted_text, created_at, updated_at
		 FROM uploads WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		var u domain.Upload
		var extracted *string
		if err := rows.Scan(&u.ID, &u.UserID, &u.Filename, &u.ContentType, &u.StorageKey, &u.SizeBytes, &u.Status, &extracted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if extracted != nil {
			u.ExtractedText = *extracted
		}
		uploads = append(uploads, &u)
	}
	return uploads, rows.Err()
}

// ListCompleted returns all uploads with extracted text, used by the admin
// reindex command.
func (r *UploadRepository) ListCompleted(ctx context.Context) ([]*domain.Upload, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, filename, content_type, storage_key, size_bytes, status, extracted_text, created_at, updated_at
		 FROM uploads WHERE status = $1 ORDER BY created_at ASC`,
		domain.UploadStatusCompleted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		var u domain.Upload
		var extracted *string
		if err := rows.Scan(&u.ID, &u.UserID, &u.Filename, &u.ContentType, &u.StorageKey, &u.SizeBytes, &u.Status, &extracted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if extracted != nil {
			u.ExtractedText = *extracted
		}
		uploads = append(uploads, &u)
	}
	return uploads, rows.Err()
}

func (r *UploadRepository) UpdateStatus(ctx context.Context, id string, status domain.UploadStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE uploads SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUploadNotFound
	}
	return nil
}

func (r *UploadRepository) SetExtractedText(ctx context.Context, id, text string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE uploads SET extracted_text = $1, status = $2, updated_at = $3 WHERE id = $4`,
		text, domain.UploadStatusCompleted, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUploadNotFound
	}
	return nil
}

func (r *UploadRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUploadNotFound
	}
	return nil
}
