package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type AppendMessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

type ChatSessionResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

// ChatService persists assistant conversation transcripts. Calling the model
// and producing replies happens in a separate system; this service only stores
// what was said.
type ChatService interface {
	CreateSession(ctx context.Context, userID string, req CreateSessionRequest) (ChatSessionResponse, error)
	ListSessions(ctx context.Context, userID string) ([]ChatSessionResponse, error)
	ListMessages(ctx context.Context, userID, sessionID string) ([]ChatMessageResponse, error)
	AppendMessage(ctx context.Context, userID, sessionID string, req AppendMessageRequest) (ChatMessageResponse, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
}

func NewChatService(chatRepo repository.ChatRepository) ChatService {
	return &chatService{chatRepo: chatRepo}
}

// --- Implementation ---

func (s *chatService) CreateSession(ctx context.Context, userID string, req CreateSessionRequest) (ChatSessionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ChatSessionResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "New conversation"
	}

	session := model.ChatSession{
		UserID: uid,
		Title:  title,
	}
	if err := s.chatRepo.CreateSession(ctx, &session); err != nil {
		return ChatSessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}
	return toSessionResponse(session), nil
}

func (s *chatService) ListSessions(ctx context.Context, userID string) ([]ChatSessionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	sessions, err := s.chatRepo.ListSessionsByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	res := make([]ChatSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		res = append(res, toSessionResponse(sess))
	}
	return res, nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, sessionID string) ([]ChatMessageResponse, error) {
	session, err := s.findOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	res := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, ChatMessageResponse{
			ID:        m.ID.String(),
			SessionID: m.SessionID.String(),
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *chatService) AppendMessage(ctx context.Context, userID, sessionID string, req AppendMessageRequest) (ChatMessageResponse, error) {
	session, err := s.findOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return ChatMessageResponse{}, err
	}

	message := model.ChatMessage{
		SessionID: session.ID,
		Role:      req.Role,
		Content:   req.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, &message); err != nil {
		return ChatMessageResponse{}, fmt.Errorf("failed to append message: %w", err)
	}

	// Best effort; failing to bump the sort order is not worth failing the append.
	_ = s.chatRepo.TouchSession(ctx, session.ID)

	return ChatMessageResponse{
		ID:        message.ID.String(),
		SessionID: message.SessionID.String(),
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}, nil
}

// --- Helpers ---

func (s *chatService) findOwnedSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	session, err := s.chatRepo.FindSession(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session.UserID != uid {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func toSessionResponse(s model.ChatSession) ChatSessionResponse {
	return ChatSessionResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}
