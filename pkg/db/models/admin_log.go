package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// AdminLog is an append-only audit entry for administrative mutations.
type AdminLog struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	AdminID    uuid.UUID         `gorm:"column:admin_id;type:uuid;not null;index:idx_admin_logs_admin_id"`
	Action     enums.AdminAction `gorm:"column:action;not null"`
	TargetType string            `gorm:"column:target_type;not null"`
	TargetID   uuid.UUID         `gorm:"column:target_id;type:uuid;not null"`
	Detail     *string           `gorm:"column:detail"`
	Admin      *User             `gorm:"foreignKey:AdminID"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the primary key when the caller left it zero.
func (a *AdminLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
