package adminlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// AdminSummary is the actor block embedded in log payloads.
type AdminSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LogDTO is the transport shape for one audit entry.
type LogDTO struct {
	ID         uuid.UUID         `json:"id"`
	AdminID    uuid.UUID         `json:"admin_id"`
	Action     enums.AdminAction `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   uuid.UUID         `json:"target_id"`
	Detail     *string           `json:"detail,omitempty"`
	Admin      *AdminSummary     `json:"admin,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// StatsDTO is the admin dashboard aggregate.
type StatsDTO struct {
	Users   UserStats `json:"users"`
	Items   int64     `json:"items"`
	Orders  int64     `json:"orders"`
	Reviews int64     `json:"reviews"`
	Chats   int64     `json:"chats"`
}

// UserStats breaks the user base down by role.
type UserStats struct {
	Total  int64                    `json:"total"`
	ByRole map[enums.UserRole]int64 `json:"by_role"`
}

func FromModel(entry *models.AdminLog) *LogDTO {
	if entry == nil {
		return nil
	}

	dto := &LogDTO{
		ID:         entry.ID,
		AdminID:    entry.AdminID,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Detail:     entry.Detail,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Admin != nil {
		dto.Admin = &AdminSummary{
			ID:    entry.Admin.ID,
			Name:  entry.Admin.Name,
			Email: entry.Admin.Email,
		}
	}
	return dto
}

func FromModels(rows []models.AdminLog) []LogDTO {
	out := make([]LogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
