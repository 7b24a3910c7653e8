package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemImage stores ordered image entries for listings.
type ItemImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:idx_item_images_item_id"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (i *ItemImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
