package chats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds the database-backed chat repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Preload("Item").First(&chat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *gormRepository) FindChatByItemAndBuyer(ctx context.Context, itemID, buyerID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		First(&chat, "item_id = ? AND buyer_id = ?", itemID, buyerID).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *gormRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// ListByParticipant returns the user's chats most recently active first,
// each with its newest message and the user's unread count.
func (r *gormRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ChatWithMeta, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var chats []models.Chat
	err := query.
		Preload("Item").
		Order("COALESCE(last_message_at, created_at) DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&chats).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]ChatWithMeta, 0, len(chats))
	for _, chat := range chats {
		meta := ChatWithMeta{Chat: chat}

		var last models.Message
		err := r.db.WithContext(ctx).
			Where("chat_id = ?", chat.ID).
			Order("created_at DESC").
			First(&last).Error
		if err == nil {
			meta.LastMessage = &last
		} else if err != gorm.ErrRecordNotFound {
			return nil, 0, err
		}

		err = r.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chat.ID, userID, false).
			Count(&meta.UnreadCount).Error
		if err != nil {
			return nil, 0, err
		}
		out = append(out, meta)
	}
	return out, total, nil
}

// ListMessages returns a chat's transcript oldest first.
func (r *gormRepository) ListMessages(ctx context.Context, chatID uuid.UUID, params pagination.Params) ([]models.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).Where("chat_id = ?", chatID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Message
	err := query.
		Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *gormRepository) TouchChat(ctx context.Context, chatID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ?", chatID).
		Update("last_message_at", at).Error
}

// MarkMessagesRead flags everything the counterparty sent as read.
func (r *gormRepository) MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true).Error
}

func (r *gormRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Chat{}).Count(&total).Error
	return total, err
}
