package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location stores a user's single delivery/meetup address.
type Location struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_locations_user_id"`
	Address   string    `gorm:"column:address;not null"`
	City      string    `gorm:"column:city;not null"`
	State     *string   `gorm:"column:state"`
	Country   string    `gorm:"column:country;not null"`
	ZipCode   *string   `gorm:"column:zip_code"`
	Latitude  *float64  `gorm:"column:latitude;type:numeric(9,6)"`
	Longitude *float64  `gorm:"column:longitude;type:numeric(9,6)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (l *Location) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
