package adminlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type logsRepository interface {
	Insert(ctx context.Context, entry *models.AdminLog) error
	List(ctx context.Context, params pagination.Params) ([]models.AdminLog, int64, error)
}

type entityCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type userCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (map[enums.UserRole]int64, error)
}

// Counters bundles the per-domain totals feeding the admin dashboard.
type Counters struct {
	Users   userCounter
	Items   entityCounter
	Orders  entityCounter
	Reviews entityCounter
	Chats   entityCounter
}

// Service records and reads the append-only audit trail. Record is the
// sink every other service's admin mutations report into.
type Service interface {
	Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error
	List(ctx context.Context, params pagination.Params) ([]LogDTO, pagination.Meta, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	repo     logsRepository
	counters Counters
}

// NewService builds the admin log service.
func NewService(repo logsRepository, counters Counters) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin log repository required")
	}
	return &service{repo: repo, counters: counters}, nil
}

func (s *service) Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error {
	if !action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid admin action")
	}
	if targetType == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "target type is required")
	}

	entry := &models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append audit entry")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]LogDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return FromModels(rows), params.MetaFor(total), nil
}

// Stats assembles the dashboard aggregate from the per-domain counters.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{Users: UserStats{ByRole: map[enums.UserRole]int64{}}}

	if s.counters.Users != nil {
		total, err := s.counters.Users.CountAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
		}
		stats.Users.Total = total

		byRole, err := s.counters.Users.CountByRole(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users by role")
		}
		stats.Users.ByRole = byRole
	}

	counts := []struct {
		name    string
		counter entityCounter
		dest    *int64
	}{
		{"items", s.counters.Items, &stats.Items},
		{"orders", s.counters.Orders, &stats.Orders},
		{"reviews", s.counters.Reviews, &stats.Reviews},
		{"chats", s.counters.Chats, &stats.Chats},
	}
	for _, c := range counts {
		if c.counter == nil {
			continue
		}
		total, err := c.counter.CountAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count "+c.name)
		}
		*c.dest = total
	}
	return stats, nil
}
