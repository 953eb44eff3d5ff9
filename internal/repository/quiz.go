package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type QuizRepository struct {
	db dbtx
}

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{db: pool}
}

func (r *QuizRepository) Create(ctx context.Context, q *domain.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO quizzes (id, course_id, title, questions, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.CourseID, q.Title, questions, q.CreatedAt,
	)
	return err
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var q domain.Quiz
	var questions []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, title, questions, created_at FROM quizzes WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.CourseID, &q.Title, &questions, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuizNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.Quiz, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, course_id, title, questions, created_at
		 FROM quizzes WHERE course_id = $1 ORDER BY created_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*domain.Quiz
	for rows.Next() {
		var q domain.Quiz
		var questions []byte
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &questions, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, &q)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepository) CreateSubmission(ctx context.Context, s *domain.QuizSubmission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO quiz_submissions (id, quiz_id, user_id, answers, score, total, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.QuizID, s.UserID, answers, s.Score, s.Total, s.SubmittedAt,
	)
	return err
}

func (r *QuizRepository) ListSubmissionsByUser(ctx context.Context, quizID, userID string) ([]*domain.QuizSubmission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, quiz_id, user_id, answers, score, total, submitted_at
		 FROM quiz_submissions WHERE quiz_id = $1 AND user_id = $2 ORDER BY submitted_at DESC`,
		quizID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*domain.QuizSubmission
	for rows.Next() {
		var s domain.QuizSubmission
		var answers []byte
		if err := rows.Scan(&s.ID, &s.QuizID, &s.UserID, &answers, &s.Score, &s.Total, &s.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, err
		}
		submissions = append(submissions, &s)
	}
	return submissions, rows.Err()
}
