package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

// StatsRepository runs the aggregate queries behind dashboards and the
// leaderboard. It only reads.
type StatsRepository struct {
	db dbtx
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool}
}

// Leaderboard ranks active students by average quiz score, best first.
// Students with no submissions are excluded. Scores are percentages.
func (r *StatsRepository) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name,
		        AVG(s.score::float8 * 100 / NULLIF(s.total, 0)) AS avg_score,
		        COUNT(s.id) AS quizzes_taken,
		        (SELECT COUNT(*) FROM enrollments e
		         WHERE e.user_id = u.id AND e.completed_at IS NOT NULL) AS courses_completed
		 FROM users u
		 JOIN quiz_submissions s ON s.user_id = u.id
		 WHERE u.active
		 GROUP BY u.id, u.name
		 ORDER BY avg_score DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Score, &e.QuizzesTaken, &e.CoursesCompleted); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *StatsRepository) StudentOverview(ctx context.Context, userID string) (*domain.StudentOverview, error) {
	var o domain.StudentOverview
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM enrollments WHERE user_id = $1),
		   (SELECT COUNT(*) FROM enrollments WHERE user_id = $1 AND completed_at IS NOT NULL),
		   (SELECT COUNT(*) FROM quiz_submissions WHERE user_id = $1),
		   (SELECT COALESCE(AVG(score::float8 * 100 / NULLIF(total, 0)), 0)
		    FROM quiz_submissions WHERE user_id = $1),
		   (SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1)`,
		userID,
	).Scan(&o.EnrolledCourses, &o.CompletedCourses, &o.QuizzesTaken, &o.AverageScore, &o.ChatSessions)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *StatsRepository) InstructorOverview(ctx context.Context, ownerID string) (*domain.InstructorOverview, error) {
	var o domain.InstructorOverview
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM courses WHERE owner_id = $1),
		   (SELECT COUNT(DISTINCT e.user_id) FROM enrollments e
		    JOIN courses c ON c.id = e.course_id WHERE c.owner_id = $1),
		   (SELECT COUNT(*) FROM enrollments e
		    JOIN courses c ON c.id = e.course_id WHERE c.owner_id = $1),
		   (SELECT COUNT(*) FROM quizzes q
		    JOIN courses c ON c.id = q.course_id WHERE c.owner_id = $1)`,
		ownerID,
	).Scan(&o.Courses, &o.Students, &o.Enrollments, &o.Quizzes)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *StatsRepository) CourseAnalytics(ctx context.Context, courseID string) (*domain.CourseAnalytics, error) {
	a := domain.CourseAnalytics{CourseID: courseID}
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM enrollments WHERE course_id = $1),
		   (SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND completed_at IS NOT NULL),
		   (SELECT COALESCE(AVG(progress), 0) FROM enrollments WHERE course_id = $1),
		   (SELECT COUNT(*) FROM quizzes WHERE course_id = $1),
		   (SELECT COUNT(*) FROM quiz_submissions s
		    JOIN quizzes q ON q.id = s.quiz_id WHERE q.course_id = $1),
		   (SELECT COALESCE(AVG(s.score::float8 * 100 / NULLIF(s.total, 0)), 0)
		    FROM quiz_submissions s
		    JOIN quizzes q ON q.id = s.quiz_id WHERE q.course_id = $1)`,
		courseID,
	).Scan(&a.Enrolled, &a.Completed, &a.AverageProgress, &a.Quizzes, &a.Submissions, &a.AverageScore)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
