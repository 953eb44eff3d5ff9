package domain

import "time"

// ChatMode controls how a session uses indexed material.
type ChatMode string

const (
	// ChatModeStrict answers only from indexed course or upload material.
	ChatModeStrict ChatMode = "strict"
	// ChatModeHybrid combines indexed material with the model's own knowledge.
	ChatModeHybrid ChatMode = "hybrid"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatSession represents a conversation scoped to a course or an upload.
type ChatSession struct {
	ID        string
	UserID    string
	CourseID  string
	UploadID  string
	Title     string
	Mode      ChatMode
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage represents a single message within a session.
type ChatMessage struct {
	ID        string
	SessionID string
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}

// ValidateChatSession validates a ChatSession instance.
func ValidateChatSession(s *ChatSession) error {
	if s == nil {
		return NewDomainError(ErrCodeValidation, "chat session cannot be nil")
	}
	if s.ID == "" {
		return NewDomainError(ErrCodeValidation, "chat session ID is required")
	}
	if s.UserID == "" {
		return NewDomainError(ErrCodeValidation, "chat session UserID is required")
	}
	if s.Title == "" {
		return NewDomainError(ErrCodeValidation, "chat session Title is required")
	}
	if !isValidChatMode(s.Mode) {
		return ErrInvalidChatMode
	}
	if s.CourseID != "" && s.UploadID != "" {
		return NewDomainError(ErrCodeValidation, "chat session cannot target both a course and an upload")
	}
	return nil
}

func isValidChatMode(m ChatMode) bool {
	switch m {
	case ChatModeStrict, ChatModeHybrid:
		return true
	}
	return false
}
