package repository

import (
	"context"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	CreateSession(ctx context.Context, session *model.ChatSession) error
	FindSession(ctx context.Context, id uuid.UUID) (*model.ChatSession, error)
	ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error)
	TouchSession(ctx context.Context, id uuid.UUID) error
	CreateMessage(ctx context.Context, message *model.ChatMessage) error
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	return GetDB(ctx, r.db).Create(session).Error
}

func (r *chatRepository) FindSession(ctx context.Context, id uuid.UUID) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := GetDB(ctx, r.db).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("updated_at desc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// TouchSession bumps updated_at so recently active sessions sort first.
func (r *chatRepository) TouchSession(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ChatSession{}).Where("id = ?", id).Update("updated_at", gorm.Expr("now()")).Error
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(message).Error
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := GetDB(ctx, r.db).Where("session_id = ?", sessionID).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
