package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/config"
	"github.com/secondchance/secondchance-backend/pkg/db"
	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
	"github.com/secondchance/secondchance-backend/pkg/security"
)

type usersRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type auditRecorder interface {
	Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error
}

// CreateUserInput is the admin-facing payload for provisioning an account.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Phone    *string
	Role     enums.UserRole
}

// Service exposes user profile and admin account operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*PublicUserDTO, error)
	List(ctx context.Context, params pagination.Params) ([]UserDTO, pagination.Meta, error)
	Create(ctx context.Context, adminID uuid.UUID, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, adminID, targetID uuid.UUID) error
}

type service struct {
	repo        usersRepository
	audit       auditRecorder
	passwordCfg config.PasswordConfig
}

// NewService builds a users service with the provided repository.
func NewService(repo usersRepository, audit auditRecorder, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, audit: audit, passwordCfg: passwordCfg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserLookupErr(err)
	}
	return FromModel(user), nil
}

func (s *service) GetPublic(ctx context.Context, id uuid.UUID) (*PublicUserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserLookupErr(err)
	}
	return PublicFromModel(user), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]UserDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, params.MetaFor(total), nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleBuyer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: &hash,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	isAdmin := actorRole == enums.UserRoleAdmin
	if !isAdmin && actorID != targetID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another user")
	}

	// Role and activation changes are an admin lever only.
	if !isAdmin {
		input.Role = nil
		input.IsActive = nil
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return nil, mapUserLookupErr(err)
	}

	user, err := s.repo.Update(ctx, targetID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	if isAdmin && actorID != targetID {
		s.recordAudit(ctx, actorID, enums.AdminActionUserUpdated, targetID, nil)
	}

	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, adminID, targetID uuid.UUID) error {
	if adminID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}

	s.recordAudit(ctx, adminID, enums.AdminActionUserDeleted, targetID, nil)
	return nil
}

func (s *service) recordAudit(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetID uuid.UUID, detail *string) {
	if s.audit == nil {
		return
	}
	// Audit failures never block the mutation itself.
	_ = s.audit.Record(ctx, adminID, action, "user", targetID, detail)
}

func mapUserLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}
