package items

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// Repository defines persistence operations for items and their images.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filters ItemFilters, page pagination.Params) ([]models.Item, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Insert(ctx context.Context, item *models.Item) error
	InsertImages(ctx context.Context, images []models.ItemImage) error
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteImagesByItemID(ctx context.Context, itemID uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}
