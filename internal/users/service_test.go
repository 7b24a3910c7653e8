package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/config"
	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type stubUsersRepo struct {
	users       map[uuid.UUID]*models.User
	createErr   error
	lastUpdate  UpdateUserInput
	updateCalls int
	deleted     []uuid.UUID
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUsersRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	s.lastUpdate = input
	s.updateCalls++
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	return u, nil
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAudit struct {
	records []enums.AdminAction
}

func (s *stubAudit) Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error {
	s.records = append(s.records, action)
	return nil
}

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func seedUser(repo *stubUsersRepo, role enums.UserRole) *models.User {
	user := &models.User{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@example.com",
		Name:  "Seed User",
		Role:  role,
	}
	repo.users[user.ID] = user
	return user
}

func TestUpdateRejectsForeignProfile(t *testing.T) {
	repo := newStubUsersRepo()
	target := seedUser(repo, enums.UserRoleBuyer)
	svc, err := NewService(repo, nil, testPasswordCfg())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	name := "Hijacked"
	_, err = svc.Update(context.Background(), uuid.New(), enums.UserRoleBuyer, target.ID, UpdateUserInput{Name: &name})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("repo update should not run for a foreign profile")
	}
}

func TestUpdateStripsRoleForNonAdmin(t *testing.T) {
	repo := newStubUsersRepo()
	target := seedUser(repo, enums.UserRoleBuyer)
	svc, _ := NewService(repo, nil, testPasswordCfg())

	admin := enums.UserRoleAdmin
	name := "Renamed"
	dto, err := svc.Update(context.Background(), target.ID, enums.UserRoleBuyer, target.ID, UpdateUserInput{
		Name: &name,
		Role: &admin,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.lastUpdate.Role != nil {
		t.Fatal("role change should be stripped for non-admin actors")
	}
	if dto.Name != "Renamed" {
		t.Fatalf("expected name updated, got %q", dto.Name)
	}
	if dto.Role != enums.UserRoleBuyer {
		t.Fatalf("expected role unchanged, got %s", dto.Role)
	}
}

func TestUpdateByAdminRecordsAudit(t *testing.T) {
	repo := newStubUsersRepo()
	target := seedUser(repo, enums.UserRoleBuyer)
	admin := seedUser(repo, enums.UserRoleAdmin)
	audit := &stubAudit{}
	svc, _ := NewService(repo, audit, testPasswordCfg())

	seller := enums.UserRoleSeller
	if _, err := svc.Update(context.Background(), admin.ID, enums.UserRoleAdmin, target.ID, UpdateUserInput{Role: &seller}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(audit.records) != 1 || audit.records[0] != enums.AdminActionUserUpdated {
		t.Fatalf("expected one user_updated audit entry, got %v", audit.records)
	}
}

func TestCreateMapsDuplicateEmailToConflict(t *testing.T) {
	repo := newStubUsersRepo()
	repo.createErr = errorsDuplicate{}
	svc, _ := NewService(repo, nil, testPasswordCfg())

	_, err := svc.Create(context.Background(), uuid.New(), CreateUserInput{
		Email:    "dup@example.com",
		Password: "supersecret",
		Name:     "Dup",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestDeleteRejectsSelf(t *testing.T) {
	repo := newStubUsersRepo()
	admin := seedUser(repo, enums.UserRoleAdmin)
	svc, _ := NewService(repo, nil, testPasswordCfg())

	err := svc.Delete(context.Background(), admin.ID, admin.ID)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

type errorsDuplicate struct{}

func (errorsDuplicate) Error() string {
	return `duplicate key value violates unique constraint "idx_users_email"`
}
