package adminlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

// Repository owns persistence for the append-only audit log.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, entry *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns audit entries newest first with the acting admin attached.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.AdminLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AdminLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AdminLog
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
