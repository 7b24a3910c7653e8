package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db"
	"github.com/secondchance/secondchance-backend/pkg/db/models"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type reviewsRepository interface {
	ListByItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]models.Review, int64, error)
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID, params pagination.Params) ([]models.Review, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, id uuid.UUID, input UpdateReviewInput) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	StatsForItem(ctx context.Context, itemID uuid.UUID) (*ReviewStats, error)
	SellerAverage(ctx context.Context, sellerID uuid.UUID) (float64, int64, error)
}

type itemFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// Service exposes review reads and strictly reviewer-owned writes.
type Service interface {
	ListForItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]ReviewDTO, pagination.Meta, error)
	Stats(ctx context.Context, itemID uuid.UUID) (*ReviewStats, error)
	ListMine(ctx context.Context, reviewerID uuid.UUID, params pagination.Params) ([]ReviewDTO, pagination.Meta, error)
	Create(ctx context.Context, reviewerID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	Update(ctx context.Context, reviewerID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	Delete(ctx context.Context, reviewerID, reviewID uuid.UUID) error
	SellerRating(ctx context.Context, sellerID uuid.UUID) (float64, int64, error)
}

type service struct {
	repo  reviewsRepository
	items itemFinder
}

// NewService builds a reviews service with the required dependencies.
func NewService(repo reviewsRepository, items itemFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item finder required")
	}
	return &service{repo: repo, items: items}, nil
}

func (s *service) ListForItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]ReviewDTO, pagination.Meta, error) {
	rows, total, err := s.repo.ListByItem(ctx, itemID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return FromModels(rows), params.MetaFor(total), nil
}

func (s *service) Stats(ctx context.Context, itemID uuid.UUID) (*ReviewStats, error) {
	stats, err := s.repo.StatsForItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate review stats")
	}
	return stats, nil
}

func (s *service) ListMine(ctx context.Context, reviewerID uuid.UUID, params pagination.Params) ([]ReviewDTO, pagination.Meta, error) {
	rows, total, err := s.repo.ListByReviewer(ctx, reviewerID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return FromModels(rows), params.MetaFor(total), nil
}

func (s *service) Create(ctx context.Context, reviewerID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.items.FindByID(ctx, input.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify item")
	}

	review := &models.Review{
		ItemID:     input.ItemID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "idx_reviews_item_reviewer") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already reviewed this item")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return FromModel(review), nil
}

// Update edits a review. Reviews are personal statements, so only the
// reviewer can touch them; there is no admin override.
func (s *service) Update(ctx context.Context, reviewerID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, mapReviewLookupErr(err)
	}
	if review.ReviewerID != reviewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the reviewer can modify this review")
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	updated, err := s.repo.Update(ctx, reviewID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return mapReviewLookupErr(err)
	}
	if review.ReviewerID != reviewerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the reviewer can delete this review")
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

// SellerRating reports the mean rating and review count across a seller's
// listings, feeding the profile endpoint.
func (s *service) SellerRating(ctx context.Context, sellerID uuid.UUID) (float64, int64, error) {
	avg, count, err := s.repo.SellerAverage(ctx, sellerID)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate seller rating")
	}
	return avg, count, nil
}

func mapReviewLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
}
