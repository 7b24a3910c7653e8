package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type locationsRepository interface {
	List(ctx context.Context, params pagination.Params) ([]models.Location, int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Location, error)
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertLocationInput) (*models.Location, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// Service exposes location operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) ([]LocationDTO, pagination.Meta, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*LocationDTO, error)
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertLocationInput) (*LocationDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetUserID uuid.UUID) error
}

type service struct {
	repo locationsRepository
}

// NewService builds a locations service with the provided repository.
func NewService(repo locationsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]LocationDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}

	out := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, params.MetaFor(total), nil
}

func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*LocationDTO, error) {
	location, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return FromModel(location), nil
}

func (s *service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertLocationInput) (*LocationDTO, error) {
	input.Address = strings.TrimSpace(input.Address)
	input.City = strings.TrimSpace(input.City)
	input.Country = strings.TrimSpace(input.Country)
	if input.Address == "" || input.City == "" || input.Country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address, city, and country are required")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}

	location, err := s.repo.Upsert(ctx, userID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save location")
	}
	return FromModel(location), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetUserID uuid.UUID) error {
	if actorRole != enums.UserRoleAdmin && actorID != targetUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's location")
	}

	if err := s.repo.DeleteByUserID(ctx, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}
