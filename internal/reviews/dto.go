package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
)

// ReviewerSummary is the author block embedded in review payloads.
type ReviewerSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID         uuid.UUID        `json:"id"`
	ItemID     uuid.UUID        `json:"item_id"`
	ReviewerID uuid.UUID        `json:"reviewer_id"`
	Rating     int              `json:"rating"`
	Comment    *string          `json:"comment,omitempty"`
	Reviewer   *ReviewerSummary `json:"reviewer,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ReviewStats aggregates ratings for one item.
type ReviewStats struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"`
}

// CreateReviewInput carries a new rating for an item.
type CreateReviewInput struct {
	ItemID  uuid.UUID
	Rating  int
	Comment *string
}

// UpdateReviewInput captures partial review edits. Nil means "leave as is".
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

func FromModel(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}

	dto := &ReviewDTO{
		ID:         review.ID,
		ItemID:     review.ItemID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
	if review.Reviewer != nil {
		dto.Reviewer = &ReviewerSummary{
			ID:        review.Reviewer.ID,
			Name:      review.Reviewer.Name,
			AvatarURL: review.Reviewer.AvatarURL,
		}
	}
	return dto
}

func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
