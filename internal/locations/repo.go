package locations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// Repository exposes location persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a locations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a page of locations ordered by creation, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Location, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Location{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Location
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindByUserID loads the single location row owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// Upsert creates the user's location or replaces the existing row's fields.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, input UpsertLocationInput) (*models.Location, error) {
	existing, err := r.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing == nil {
		location := &models.Location{
			UserID:    userID,
			Address:   input.Address,
			City:      input.City,
			State:     input.State,
			Country:   input.Country,
			ZipCode:   input.ZipCode,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		}
		if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
			return nil, err
		}
		return location, nil
	}

	updates := map[string]any{
		"address":   input.Address,
		"city":      input.City,
		"state":     input.State,
		"country":   input.Country,
		"zip_code":  input.ZipCode,
		"latitude":  input.Latitude,
		"longitude": input.Longitude,
	}
	err = r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// DeleteByUserID removes the user's location row.
func (r *Repository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Location{}, "user_id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
