package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

const accessTokenPrefix = "shb_"

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateToken(ctx context.Context, t *domain.AccessToken) error
	GetTokenByHash(ctx context.Context, hash string) (*domain.AccessToken, error)
	TouchToken(ctx context.Context, id string) error
	RevokeToken(ctx context.Context, id string) error
}

type AuthService struct {
	userRepo UserRepository
	uuidGen  UUIDGenerator
}

func NewAuthService(userRepo UserRepository, uuidGen UUIDGenerator) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		uuidGen:  uuidGen,
	}
}

// Register creates a new user account. The email is lowercased so lookups are
// case-insensitive.
func (s *AuthService) Register(ctx context.Context, email, name, password string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "email is required")
	}
	if len(password) < 8 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "password must be at least 8 characters")
	}
	if role == "" {
		role = domain.UserRoleStudent
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.uuidGen.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and issues a bearer token. The plaintext token
// is returned exactly once; only its hash is stored.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := generateAccessToken()
	if err != nil {
		return "", nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate access token", err)
	}

	record := &domain.AccessToken{
		ID:        s.uuidGen.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(token),
		Revoked:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.CreateToken(ctx, record); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// ValidateToken resolves a bearer token to the user ID it belongs to.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if !IsValidAccessToken(token) {
		return "", domain.ErrInvalidToken
	}

	record, err := s.userRepo.GetTokenByHash(ctx, hashToken(token))
	if err != nil {
		return "", err
	}
	if record.Revoked {
		return "", domain.ErrTokenRevoked
	}

	// Best effort, token validity does not depend on it.
	_ = s.userRepo.TouchToken(ctx, record.ID)

	return record.UserID, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if !IsValidAccessToken(token) {
		return domain.ErrInvalidToken
	}

	record, err := s.userRepo.GetTokenByHash(ctx, hashToken(token))
	if err != nil {
		return err
	}
	return s.userRepo.RevokeToken(ctx, record.ID)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}
	return s.userRepo.GetByID(ctx, id)
}

func generateAccessToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return accessTokenPrefix + hex.EncodeToString(bytes), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// IsValidAccessToken reports whether token has the issued format,
// shb_<64 hex chars>.
func IsValidAccessToken(token string) bool {
	if !strings.HasPrefix(token, accessTokenPrefix) {
		return false
	}
	hexPart := token[len(accessTokenPrefix):]
	if len(hexPart) != 64 {
		return false
	}
	for _, c := range hexPart {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
