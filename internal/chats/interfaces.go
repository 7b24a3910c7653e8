package chats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// ChatWithMeta pairs a chat with its latest message and the caller's
// unread message count.
type ChatWithMeta struct {
	Chat        models.Chat
	LastMessage *models.Message
	UnreadCount int64
}

// Repository defines persistence operations for chats and messages. Two
// implementations exist: the GORM-backed one and an in-memory stand-in
// selected by the chat feature flag.
type Repository interface {
	FindChat(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	FindChatByItemAndBuyer(ctx context.Context, itemID, buyerID uuid.UUID) (*models.Chat, error)
	CreateChat(ctx context.Context, chat *models.Chat) error
	ListByParticipant(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ChatWithMeta, int64, error)
	ListMessages(ctx context.Context, chatID uuid.UUID, params pagination.Params) ([]models.Message, int64, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	TouchChat(ctx context.Context, chatID uuid.UUID, at time.Time) error
	MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}
