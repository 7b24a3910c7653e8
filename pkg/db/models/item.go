package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// Item represents a secondhand listing posted by a seller.
type Item struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index:idx_items_seller_id"`
	CategoryID    uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index:idx_items_category_id"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	ConditionType enums.ConditionType `gorm:"column:condition_type;not null"`
	IsAvailable   bool                `gorm:"column:is_available;not null;default:true"`
	Seller        *User               `gorm:"foreignKey:SellerID"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	Images        []ItemImage         `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (i *Item) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
