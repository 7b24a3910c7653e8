package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// Chat is a buyer-seller conversation anchored to a listing.
type Chat struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ItemID        uuid.UUID        `gorm:"column:item_id;type:uuid;not null;index:idx_chats_item_id"`
	BuyerID       uuid.UUID        `gorm:"column:buyer_id;type:uuid;not null;index:idx_chats_buyer_id"`
	SellerID      uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index:idx_chats_seller_id"`
	Status        enums.ChatStatus `gorm:"column:status;not null;default:active"`
	LastMessageAt *time.Time       `gorm:"column:last_message_at"`
	Item          *Item            `gorm:"foreignKey:ItemID"`
	Messages      []Message        `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (c *Chat) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
