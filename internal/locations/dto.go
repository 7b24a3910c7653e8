package locations

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
)

// LocationDTO is the transport shape for a user's address.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     *string   `json:"state,omitempty"`
	Country   string    `json:"country"`
	ZipCode   *string   `json:"zip_code,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertLocationInput carries the full address payload. The caller's one
// location row is created or replaced wholesale.
type UpsertLocationInput struct {
	Address   string
	City      string
	State     *string
	Country   string
	ZipCode   *string
	Latitude  *float64
	Longitude *float64
}

func FromModel(l *models.Location) *LocationDTO {
	if l == nil {
		return nil
	}
	return &LocationDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Address:   l.Address,
		City:      l.City,
		State:     l.State,
		Country:   l.Country,
		ZipCode:   l.ZipCode,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
