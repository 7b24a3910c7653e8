package auth

import (
	"github.com/secondchance/secondchance-backend/internal/users"
)

// RegisterRequest carries local-credential signup fields.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

// LoginRequest carries local-credential login fields.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the bearer token plus the signed-in user.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
