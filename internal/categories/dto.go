package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a taxonomy entry.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IconURL     *string   `json:"icon_url,omitempty"`
	ItemCount   int64     `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryInput carries the fields for a new category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	IconURL     *string
}

// UpdateCategoryInput captures partial mutations. Nil means "leave as is".
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	IconURL     *string
}

func FromModel(c *models.Category, itemCount int64) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IconURL:     c.IconURL,
		ItemCount:   itemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
