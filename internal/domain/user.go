package domain

import "time"

// UserRole represents a user's role on the platform.
type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
	UserRoleAdmin      UserRole = "admin"
)

// User represents a platform account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccessToken represents an issued bearer token. Only the SHA-256 hash of the
// secret is stored.
type AccessToken struct {
	ID        string
	UserID    string
	TokenHash string
	Revoked   bool
	CreatedAt time.Time
	LastUsed  *time.Time
}

// ValidateUser validates a User instance.
func ValidateUser(u *User) error {
	if u == nil {
		return NewDomainError(ErrCodeValidation, "user cannot be nil")
	}
	if u.ID == "" {
		return NewDomainError(ErrCodeValidation, "user ID is required")
	}
	if u.Email == "" {
		return NewDomainError(ErrCodeValidation, "user Email is required")
	}
	if u.Name == "" {
		return NewDomainError(ErrCodeValidation, "user Name is required")
	}
	if !isValidUserRole(u.Role) {
		return NewDomainError(ErrCodeValidation, "user Role is invalid")
	}
	return nil
}

func isValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleStudent, UserRoleInstructor, UserRoleAdmin:
		return true
	}
	return false
}
