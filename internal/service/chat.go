package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/telemetry"
)

type ChatRepository interface {
	CreateSession(ctx context.Context, s *domain.ChatSession) error
	GetSessionByID(ctx context.Context, id string) (*domain.ChatSession, error)
	ListSessionsByUser(ctx context.Context, userID string) ([]*domain.ChatSession, error)
	TouchSession(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, m *domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error)
}

// ContextProvider supplies retrieval context for a query.
type ContextProvider interface {
	GetRelevantContext(ctx context.Context, query string, scope Scope, limit int) (string, error)
}

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	strictNoMaterialAnswer = "I don't have any indexed material that covers this question. Try rephrasing, or switch the session to hybrid mode to include general knowledge."
	generatorDownAnswer    = "The assistant is unavailable right now. Your message has been saved; please try again later."
)

// SessionInput carries the fields for opening a chat session.
type SessionInput struct {
	CourseID string
	UploadID string
	Title    string
	Mode     domain.ChatMode
}

// ChatService runs retrieval-augmented conversations over indexed material.
type ChatService struct {
	chatRepo  ChatRepository
	retriever ContextProvider
	generator TextGenerator
	uuidGen   UUIDGenerator
}

// NewChatService creates a ChatService. A nil generator degrades to a canned
// unavailable answer instead of failing requests.
func NewChatService(chatRepo ChatRepository, retriever ContextProvider, generator TextGenerator, uuidGen UUIDGenerator) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		retriever: retriever,
		generator: generator,
		uuidGen:   uuidGen,
	}
}

func (s *ChatService) CreateSession(ctx context.Context, userID string, input SessionInput) (*domain.ChatSession, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}

	mode := input.Mode
	if mode == "" {
		mode = domain.ChatModeStrict
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New chat"
	}

	now := time.Now().UTC()
	session := &domain.ChatSession{
		ID:        s.uuidGen.NewString(),
		UserID:    userID,
		CourseID:  input.CourseID,
		UploadID:  input.UploadID,
		Title:     title,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidateChatSession(session); err != nil {
		return nil, err
	}

	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *ChatService) GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

func (s *ChatService) ListSessions(ctx context.Context, userID string) ([]*domain.ChatSession, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}
	return s.chatRepo.ListSessionsByUser(ctx, userID)
}

func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.chatRepo.DeleteSession(ctx, session.ID)
}

func (s *ChatService) ListMessages(ctx context.Context, userID, sessionID string) ([]*domain.ChatMessage, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, session.ID)
}

// SendMessage stores the user's message, retrieves context scoped to the
// session's course or upload, and produces the assistant's reply. In strict
// mode with no matching material the model is never called; a fixed answer
// explains why.
func (s *ChatService) SendMessage(ctx context.Context, userID, sessionID, content string) (*domain.ChatMessage, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.SendMessage", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "chat",
	})
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "message content is required")
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.ChatMessage{
		ID:        s.uuidGen.NewString(),
		SessionID: session.ID,
		Role:      domain.ChatRoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatRepo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	scope := Scope{CourseID: session.CourseID, UploadID: session.UploadID}
	material, err := s.retriever.GetRelevantContext(ctx, content, scope, DefaultContextLimit)
	if err != nil {
		return nil, err
	}

	answer := s.answer(ctx, session.Mode, material, content)

	assistantMsg := &domain.ChatMessage{
		ID:        s.uuidGen.NewString(),
		SessionID: session.ID,
		Role:      domain.ChatRoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatRepo.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.chatRepo.TouchSession(ctx, session.ID); err != nil {
		return nil, err
	}

	return assistantMsg, nil
}

func (s *ChatService) answer(ctx context.Context, mode domain.ChatMode, material, question string) string {
	if mode == domain.ChatModeStrict && material == "" {
		return strictNoMaterialAnswer
	}
	if s.generator == nil {
		return generatorDownAnswer
	}

	prompt := buildChatPrompt(mode, material, question)
	answer, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("chat completion failed, returning fallback answer: %v", err)
		return generatorDownAnswer
	}
	return answer
}

func buildChatPrompt(mode domain.ChatMode, material, question string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant for an online learning platform.\n")

	switch mode {
	case domain.ChatModeStrict:
		b.WriteString("Answer using ONLY the course material below. If the material does not cover the question, say so instead of guessing.\n")
	default:
		b.WriteString("Prefer the course material below, but you may draw on general knowledge when the material is insufficient. Make clear which parts go beyond the material.\n")
	}

	if material != "" {
		b.WriteString("\nCourse material:\n")
		b.WriteString(material)
		b.WriteString("\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func (s *ChatService) ownedSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	if sessionID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "session ID is required")
	}

	session, err := s.chatRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Sessions are private. Hide other users' sessions entirely.
	if session.UserID != userID {
		return nil, domain.ErrChatSessionNotFound
	}
	return session, nil
}
