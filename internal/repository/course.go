package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/pagination"
)

type CourseRepository struct {
	db dbtx
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: pool}
}

func NewCourseRepositoryWithTx(tx pgx.Tx) *CourseRepository {
	return &CourseRepository{db: tx}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (id, owner_id, title, description, outline, level, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.OwnerID, c.Title, c.Description, nullableString(c.Outline), c.Level, c.Tags, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var c domain.Course
	var outline *string
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, title, description, outline, level, tags, created_at, updated_at
		 FROM courses WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &outline, &c.Level, &c.Tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	if outline != nil {
		c.Outline = *outline
	}
	return &c, nil
}

// ListByOwner returns one page of the owner's courses, newest first.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID string, cursor *pagination.Cursor, limit int) (*pagination.Page[*domain.Course], error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, owner_id, title, description, outline, level, tags, created_at, updated_at
			 FROM courses
			 WHERE owner_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			ownerID, cursor.CreatedAt, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, owner_id, title, description, outline, level, tags, created_at, updated_at
			 FROM courses
			 WHERE owner_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			ownerID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses, err := scanCourseRows(rows)
	if err != nil {
		return nil, err
	}

	page := &pagination.Page[*domain.Course]{Items: courses}
	if len(courses) > limit {
		page.Items = courses[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.Cursor = pagination.Encode(last.ID, last.CreatedAt)
	}
	return page, nil
}

// ListAll returns every course regardless of owner. Used by admin reindexing.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, title, description, outline, level, tags, created_at, updated_at
		 FROM courses ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourseRows(rows)
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses
		 SET title = $1, description = $2, outline = $3, level = $4, tags = $5, updated_at = $6
		 WHERE id = $7`,
		c.Title, c.Description, nullableString(c.Outline), c.Level, c.Tags, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course and its chapters. Chunk cleanup is the caller's
// responsibility.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chapters WHERE course_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) CreateChapter(ctx context.Context, ch *domain.Chapter) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chapters (id, course_id, title, content, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ch.ID, ch.CourseID, ch.Title, ch.Content, ch.Position, ch.CreatedAt, ch.UpdatedAt,
	)
	return err
}

func (r *CourseRepository) GetChapterByID(ctx context.Context, id string) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, title, content, position, created_at, updated_at
		 FROM chapters WHERE id = $1`,
		id,
	).Scan(&ch.ID, &ch.CourseID, &ch.Title, &ch.Content, &ch.Position, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChapterNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (r *CourseRepository) ListChapters(ctx context.Context, courseID string) ([]*domain.Chapter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, course_id, title, content, position, created_at, updated_at
		 FROM chapters WHERE course_id = $1 ORDER BY position ASC`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*domain.Chapter
	for rows.Next() {
		var ch domain.Chapter
		if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.Title, &ch.Content, &ch.Position, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		chapters = append(chapters, &ch)
	}
	return chapters, rows.Err()
}

func (r *CourseRepository) UpdateChapter(ctx context.Context, ch *domain.Chapter) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE chapters SET title = $1, content = $2, position = $3, updated_at = $4 WHERE id = $5`,
		ch.Title, ch.Content, ch.Position, ch.UpdatedAt, ch.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func (r *CourseRepository) DeleteChapter(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func scanCourseRows(rows pgx.Rows) ([]*domain.Course, error) {
	var courses []*domain.Course
	for rows.Next() {
		var c domain.Course
		var outline *string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &outline, &c.Level, &c.Tags, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if outline != nil {
			c.Outline = *outline
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}
