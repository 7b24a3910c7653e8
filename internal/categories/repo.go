package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
)

// CategoryWithCount pairs a category row with its listing count.
type CategoryWithCount struct {
	Category models.Category
	Count    int64
}

// Repository exposes category persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a categories repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListWithCounts returns every category alphabetically with its item count.
func (r *Repository) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uuid.UUID
		Count      int64
	}
	var counts []countRow
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("category_id, COUNT(*) AS count").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.Count
	}

	out := make([]CategoryWithCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryWithCount{Category: row, Count: byID[row.ID]})
	}
	return out, nil
}

// FindByID loads one category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CountItems returns the number of listings filed under the category.
func (r *Repository) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies the non-nil fields and returns the refreshed row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IconURL != nil {
		updates["icon_url"] = *input.IconURL
	}

	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.Category{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, id)
}

// Delete removes the category row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
