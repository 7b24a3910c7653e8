package adminlog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type stubLogsRepo struct {
	entries []models.AdminLog
}

func (s *stubLogsRepo) Insert(ctx context.Context, entry *models.AdminLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubLogsRepo) List(ctx context.Context, params pagination.Params) ([]models.AdminLog, int64, error) {
	return s.entries, int64(len(s.entries)), nil
}

type fixedCounter int64

func (c fixedCounter) CountAll(ctx context.Context) (int64, error) {
	return int64(c), nil
}

type stubUserCounter struct {
	total  int64
	byRole map[enums.UserRole]int64
}

func (s stubUserCounter) CountAll(ctx context.Context) (int64, error) {
	return s.total, nil
}

func (s stubUserCounter) CountByRole(ctx context.Context) (map[enums.UserRole]int64, error) {
	return s.byRole, nil
}

func TestRecordAppendsEntry(t *testing.T) {
	repo := &stubLogsRepo{}
	svc, err := NewService(repo, Counters{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	adminID := uuid.New()
	targetID := uuid.New()
	detail := "pending -> paid"
	if err := svc.Record(context.Background(), adminID, enums.AdminActionOrderUpdated, "order", targetID, &detail); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.AdminID != adminID || entry.TargetID != targetID || entry.Action != enums.AdminActionOrderUpdated {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestRecordRejectsUnknownAction(t *testing.T) {
	svc, _ := NewService(&stubLogsRepo{}, Counters{})

	err := svc.Record(context.Background(), uuid.New(), enums.AdminAction("made_coffee"), "user", uuid.New(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestStatsAssemblesCounters(t *testing.T) {
	svc, _ := NewService(&stubLogsRepo{}, Counters{
		Users: stubUserCounter{
			total: 10,
			byRole: map[enums.UserRole]int64{
				enums.UserRoleBuyer:  7,
				enums.UserRoleSeller: 2,
				enums.UserRoleAdmin:  1,
			},
		},
		Items:   fixedCounter(25),
		Orders:  fixedCounter(4),
		Reviews: fixedCounter(9),
		Chats:   fixedCounter(3),
	})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Users.Total != 10 || stats.Users.ByRole[enums.UserRoleBuyer] != 7 {
		t.Fatalf("unexpected user stats %+v", stats.Users)
	}
	if stats.Items != 25 || stats.Orders != 4 || stats.Reviews != 9 || stats.Chats != 3 {
		t.Fatalf("unexpected entity counts %+v", stats)
	}
}
