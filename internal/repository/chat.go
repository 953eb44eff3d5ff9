package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type ChatRepository struct {
	db dbtx
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: pool}
}

func (r *ChatRepository) CreateSession(ctx context.Context, s *domain.ChatSession) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_sessions (id, user_id, course_id, upload_id, title, mode, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, nullableString(s.CourseID), nullableString(s.UploadID), s.Title, s.Mode, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *ChatRepository) GetSessionByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	var s domain.ChatSession
	var courseID, uploadID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, course_id, upload_id, title, mode, created_at, updated_at
		 FROM chat_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.UserID, &courseID, &uploadID, &s.Title, &s.Mode, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatSessionNotFound
		}
		return nil, err
	}
	if courseID != nil {
		s.CourseID = *courseID
	}
	if uploadID != nil {
		s.UploadID = *uploadID
	}
	return &s, nil
}

func (r *ChatRepository) ListSessionsByUser(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, course_id, upload_id, title, mode, created_at, updated_at
		 FROM chat_sessions WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		var s domain.ChatSession
		var courseID, uploadID *string
		if err := rows.Scan(&s.ID, &s.UserID, &courseID, &uploadID, &s.Title, &s.Mode, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if courseID != nil {
			s.CourseID = *courseID
		}
		if uploadID != nil {
			s.UploadID = *uploadID
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func (r *ChatRepository) TouchSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE chat_sessions SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	return err
}

func (r *ChatRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatSessionNotFound
	}
	return nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt,
	)
	return err
}

func (r *ChatRepository) ListMessages(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
