package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type UserRepository struct {
	db dbtx
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, active, created_at, updated_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateToken(ctx context.Context, t *domain.AccessToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO access_tokens (id, user_id, token_hash, revoked, created_at, last_used)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.TokenHash, t.Revoked, t.CreatedAt, t.LastUsed,
	)
	return err
}

func (r *UserRepository) GetTokenByHash(ctx context.Context, hash string) (*domain.AccessToken, error) {
	var t domain.AccessToken
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, token_hash, revoked, created_at, last_used
		 FROM access_tokens WHERE token_hash = $1`,
		hash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Revoked, &t.CreatedAt, &t.LastUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return &t, nil
}

func (r *UserRepository) TouchToken(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE access_tokens SET last_used = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	return err
}

func (r *UserRepository) RevokeToken(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE access_tokens SET revoked = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}
