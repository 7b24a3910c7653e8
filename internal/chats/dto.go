package chats

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// MessageDTO is one transcript entry.
type MessageDTO struct {
	ID         uuid.UUID        `json:"id"`
	ChatID     uuid.UUID        `json:"chat_id"`
	SenderID   uuid.UUID        `json:"sender_id"`
	SenderType enums.SenderType `json:"sender_type"`
	Content    string           `json:"content"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ChatDTO is the transport shape for a conversation summary.
type ChatDTO struct {
	ID            uuid.UUID        `json:"id"`
	ItemID        uuid.UUID        `json:"item_id"`
	ItemTitle     string           `json:"item_title,omitempty"`
	BuyerID       uuid.UUID        `json:"buyer_id"`
	SellerID      uuid.UUID        `json:"seller_id"`
	Status        enums.ChatStatus `json:"status"`
	LastMessage   *MessageDTO      `json:"last_message,omitempty"`
	UnreadCount   int64            `json:"unread_count"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func messageFromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderType: m.SenderType,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func chatFromMeta(meta *ChatWithMeta) *ChatDTO {
	if meta == nil {
		return nil
	}
	dto := &ChatDTO{
		ID:            meta.Chat.ID,
		ItemID:        meta.Chat.ItemID,
		BuyerID:       meta.Chat.BuyerID,
		SellerID:      meta.Chat.SellerID,
		Status:        meta.Chat.Status,
		LastMessage:   messageFromModel(meta.LastMessage),
		UnreadCount:   meta.UnreadCount,
		LastMessageAt: meta.Chat.LastMessageAt,
		CreatedAt:     meta.Chat.CreatedAt,
	}
	if meta.Chat.Item != nil {
		dto.ItemTitle = meta.Chat.Item.Title
	}
	return dto
}

func chatFromModel(chat *models.Chat) *ChatDTO {
	if chat == nil {
		return nil
	}
	return chatFromMeta(&ChatWithMeta{Chat: *chat})
}

func messagesFromModels(rows []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *messageFromModel(&rows[i]))
	}
	return out
}
