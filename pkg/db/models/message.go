package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// Message is one entry in a chat transcript.
type Message struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ChatID     uuid.UUID        `gorm:"column:chat_id;type:uuid;not null;index:idx_messages_chat_id"`
	SenderID   uuid.UUID        `gorm:"column:sender_id;type:uuid;not null"`
	SenderType enums.SenderType `gorm:"column:sender_type;not null"`
	Content    string           `gorm:"column:content;not null"`
	IsRead     bool             `gorm:"column:is_read;not null;default:false"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
