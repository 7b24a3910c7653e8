package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// ItemImageDTO is the transport shape for one listing photo.
type ItemImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
}

// SellerSummary is the seller block embedded in listing payloads.
type SellerSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	City      *string   `json:"city,omitempty"`
	Country   *string   `json:"country,omitempty"`
}

// CategorySummary is the category block embedded in listing payloads.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemDTO is the transport shape for a listing.
type ItemDTO struct {
	ID            uuid.UUID           `json:"id"`
	SellerID      uuid.UUID           `json:"seller_id"`
	CategoryID    uuid.UUID           `json:"category_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	ConditionType enums.ConditionType `json:"condition_type"`
	IsAvailable   bool                `json:"is_available"`
	Images        []ItemImageDTO      `json:"images"`
	Seller        *SellerSummary      `json:"seller,omitempty"`
	Category      *CategorySummary    `json:"category,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateItemInput carries the fields for a new listing.
type CreateItemInput struct {
	Title         string
	Description   string
	Price         decimal.Decimal
	CategoryID    uuid.UUID
	ConditionType enums.ConditionType
	IsAvailable   *bool
	Images        []string
}

// UpdateItemInput captures partial mutations. Nil means "leave as is".
type UpdateItemInput struct {
	Title         *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *uuid.UUID
	ConditionType *enums.ConditionType
	IsAvailable   *bool
}

// ItemFilters describe the supported filter knobs for the browse endpoint.
// Filters AND-compose; absent filters are omitted.
type ItemFilters struct {
	CategoryID    *uuid.UUID
	Search        string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	SellerID      *uuid.UUID
	AvailableOnly bool
}

func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}

	dto := &ItemDTO{
		ID:            item.ID,
		SellerID:      item.SellerID,
		CategoryID:    item.CategoryID,
		Title:         item.Title,
		Description:   item.Description,
		Price:         item.Price,
		ConditionType: item.ConditionType,
		IsAvailable:   item.IsAvailable,
		Images:        make([]ItemImageDTO, 0, len(item.Images)),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	for _, img := range item.Images {
		dto.Images = append(dto.Images, ItemImageDTO{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			Position:  img.Position,
		})
	}
	if item.Seller != nil {
		summary := &SellerSummary{
			ID:        item.Seller.ID,
			Name:      item.Seller.Name,
			AvatarURL: item.Seller.AvatarURL,
		}
		if item.Seller.Location != nil {
			summary.City = &item.Seller.Location.City
			summary.Country = &item.Seller.Location.Country
		}
		dto.Seller = summary
	}
	if item.Category != nil {
		dto.Category = &CategorySummary{ID: item.Category.ID, Name: item.Category.Name}
	}
	return dto
}

func FromModels(items []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
