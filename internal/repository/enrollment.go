package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type EnrollmentRepository struct {
	db dbtx
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: pool}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (id, course_id, user_id, progress, enrolled_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.CourseID, e.UserID, e.Progress, e.EnrolledAt, e.CompletedAt,
	)
	return err
}

func (r *EnrollmentRepository) GetByCourseAndUser(ctx context.Context, courseID, userID string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, user_id, progress, enrolled_at, completed_at
		 FROM enrollments WHERE course_id = $1 AND user_id = $2`,
		courseID, userID,
	).Scan(&e.ID, &e.CourseID, &e.UserID, &e.Progress, &e.EnrolledAt, &e.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, courseID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM enrollments WHERE course_id = $1 AND user_id = $2`,
		courseID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

// UpdateProgress sets the student's progress on a course. completedAt is
// nil while the course is unfinished.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE enrollments SET progress = $1, completed_at = $2
		 WHERE course_id = $3 AND user_id = $4`,
		progress, completedAt, courseID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

// ListEnrolledCourses returns the student's courses with enrollment state,
// most recently enrolled first.
func (r *EnrollmentRepository) ListEnrolledCourses(ctx context.Context, userID string) ([]*domain.EnrolledCourse, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.owner_id, c.title, c.description, c.outline, c.level, c.tags, c.created_at, c.updated_at,
		        e.progress, e.enrolled_at, e.completed_at
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.user_id = $1
		 ORDER BY e.enrolled_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrolled []*domain.EnrolledCourse
	for rows.Next() {
		var ec domain.EnrolledCourse
		var outline *string
		if err := rows.Scan(
			&ec.Course.ID, &ec.Course.OwnerID, &ec.Course.Title, &ec.Course.Description,
			&outline, &ec.Course.Level, &ec.Course.Tags, &ec.Course.CreatedAt, &ec.Course.UpdatedAt,
			&ec.Progress, &ec.EnrolledAt, &ec.CompletedAt,
		); err != nil {
			return nil, err
		}
		if outline != nil {
			ec.Course.Outline = *outline
		}
		enrolled = append(enrolled, &ec)
	}
	return enrolled, rows.Err()
}

// ListCourseStudents returns everyone enrolled in a course, most recently
// enrolled first.
func (r *EnrollmentRepository) ListCourseStudents(ctx context.Context, courseID string) ([]*domain.StudentEnrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email, e.progress, e.enrolled_at, e.completed_at
		 FROM enrollments e
		 JOIN users u ON u.id = e.user_id
		 WHERE e.course_id = $1
		 ORDER BY e.enrolled_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*domain.StudentEnrollment
	for rows.Next() {
		var s domain.StudentEnrollment
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.Progress, &s.EnrolledAt, &s.CompletedAt); err != nil {
			return nil, err
		}
		students = append(students, &s)
	}
	return students, rows.Err()
}
