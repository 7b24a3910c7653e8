package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type auditRecorder interface {
	Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error
}

// Service exposes listing operations for the marketplace catalog.
type Service interface {
	List(ctx context.Context, filters ItemFilters, params pagination.Params) ([]ItemDTO, pagination.Meta, error)
	Landing(ctx context.Context, params pagination.Params) ([]ItemDTO, pagination.Meta, error)
	Search(ctx context.Context, term string, params pagination.Params) ([]ItemDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, sellerID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error
}

type service struct {
	repo       Repository
	tx         txRunner
	categories categoryFinder
	audit      auditRecorder
}

// NewService builds an items service with the required dependencies.
func NewService(repo Repository, tx txRunner, categories categoryFinder, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category finder required")
	}
	return &service{repo: repo, tx: tx, categories: categories, audit: audit}, nil
}

func (s *service) List(ctx context.Context, filters ItemFilters, params pagination.Params) ([]ItemDTO, pagination.Meta, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}

	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return FromModels(rows), params.MetaFor(total), nil
}

// Landing returns the newest available listings for the landing page,
// honoring the caller's page and limit.
func (s *service) Landing(ctx context.Context, params pagination.Params) ([]ItemDTO, pagination.Meta, error) {
	return s.List(ctx, ItemFilters{AvailableOnly: true}, params)
}

func (s *service) Search(ctx context.Context, term string, params pagination.Params) ([]ItemDTO, pagination.Meta, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}
	return s.List(ctx, ItemFilters{Search: term, AvailableOnly: true}, params)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapItemLookupErr(err)
	}
	return FromModel(item), nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.Price.GreaterThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if !input.ConditionType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition type")
	}
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify category")
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	item := &models.Item{
		SellerID:      sellerID,
		CategoryID:    input.CategoryID,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Price:         input.Price,
		ConditionType: input.ConditionType,
		IsAvailable:   available,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Insert(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
		}

		images := make([]models.ItemImage, 0, len(input.Images))
		for i, url := range input.Images {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			images = append(images, models.ItemImage{
				ItemID:    item.ID,
				ImageURL:  url,
				IsPrimary: len(images) == 0,
				Position:  i,
			})
		}
		if err := repo.InsertImages(ctx, images); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach item images")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, item.ID)
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, mapItemLookupErr(err)
	}
	if item.SellerID != actorID && actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can modify this item")
	}

	if input.Price != nil && !input.Price.GreaterThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.ConditionType != nil && !input.ConditionType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition type")
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify category")
		}
	}

	updated, err := s.repo.Update(ctx, itemID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return mapItemLookupErr(err)
	}
	isAdmin := actorRole == enums.UserRoleAdmin
	if item.SellerID != actorID && !isAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can delete this item")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteImagesByItemID(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item images")
		}
		if err := repo.Delete(ctx, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if isAdmin && item.SellerID != actorID {
		s.recordAudit(ctx, actorID, enums.AdminActionItemDeleted, itemID, &item.Title)
	}
	return nil
}

func (s *service) recordAudit(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetID uuid.UUID, detail *string) {
	if s.audit == nil {
		return
	}
	// Audit failures never block the mutation itself.
	_ = s.audit.Record(ctx, adminID, action, "item", targetID, detail)
}

func mapItemLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
}
