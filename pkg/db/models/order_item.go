package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots one purchased listing inside an order. PriceAtPurchase
// is captured at checkout so later price edits never rewrite order history.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order_id"`
	ItemID          uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index:idx_order_items_item_id"`
	Quantity        int             `gorm:"column:quantity;not null;default:1"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null"`
	Item            *Item           `gorm:"foreignKey:ItemID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (o *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
