package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Phone       *string        `json:"phone,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Bio         *string        `json:"bio,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	Location    *LocationView  `json:"location,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PublicUserDTO is the profile shape other marketplace users may see.
type PublicUserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	City      *string   `json:"city,omitempty"`
	Country   *string   `json:"country,omitempty"`
	MemberFor time.Time `json:"member_since"`
}

// LocationView is the address block embedded in a profile payload.
type LocationView struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	State   *string   `json:"state,omitempty"`
	Country string    `json:"country"`
	ZipCode *string   `json:"zip_code,omitempty"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash *string
	Name         string
	Phone        *string
	AvatarURL    *string
	Role         enums.UserRole
	GoogleID     *string
	IsActive     *bool
}

// UpdateUserInput captures the mutable profile fields. Nil means "leave as is".
type UpdateUserInput struct {
	Name      *string
	Phone     *string
	AvatarURL *string
	Bio       *string
	Role      *enums.UserRole
	IsActive  *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Location != nil {
		dto.Location = &LocationView{
			ID:      u.Location.ID,
			Address: u.Location.Address,
			City:    u.Location.City,
			State:   u.Location.State,
			Country: u.Location.Country,
			ZipCode: u.Location.ZipCode,
		}
	}
	return dto
}

func PublicFromModel(u *models.User) *PublicUserDTO {
	if u == nil {
		return nil
	}

	dto := &PublicUserDTO{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		MemberFor: u.CreatedAt,
	}
	if u.Location != nil {
		dto.City = &u.Location.City
		dto.Country = &u.Location.Country
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleBuyer
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		AvatarURL:    c.AvatarURL,
		Role:         role,
		GoogleID:     c.GoogleID,
		IsActive:     isActive,
	}
}
