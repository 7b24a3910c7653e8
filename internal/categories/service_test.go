package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
)

type stubCategoriesRepo struct {
	categories map[uuid.UUID]*models.Category
	itemCounts map[uuid.UUID]int64
	createErr  error
}

func newStubCategoriesRepo() *stubCategoriesRepo {
	return &stubCategoriesRepo{
		categories: map[uuid.UUID]*models.Category{},
		itemCounts: map[uuid.UUID]int64{},
	}
}

func (s *stubCategoriesRepo) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	out := make([]CategoryWithCount, 0, len(s.categories))
	for id, c := range s.categories {
		out = append(out, CategoryWithCount{Category: *c, Count: s.itemCounts[id]})
	}
	return out, nil
}

func (s *stubCategoriesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoriesRepo) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.itemCounts[id], nil
}

func (s *stubCategoriesRepo) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	category := &models.Category{ID: uuid.New(), Name: input.Name, Description: input.Description}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubCategoriesRepo) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Description != nil {
		c.Description = input.Description
	}
	return c, nil
}

func (s *stubCategoriesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.categories, id)
	return nil
}

func TestCreateCategoryRejectsBlankName(t *testing.T) {
	svc, _ := NewService(newStubCategoriesRepo())

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateCategoryMapsDuplicateToConflict(t *testing.T) {
	repo := newStubCategoriesRepo()
	repo.createErr = duplicateNameErr{}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Furniture"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestDeleteCategoryBlockedWhileItemsRemain(t *testing.T) {
	repo := newStubCategoriesRepo()
	category := &models.Category{ID: uuid.New(), Name: "Bikes"}
	repo.categories[category.ID] = category
	repo.itemCounts[category.ID] = 3
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), category.ID)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
	if _, ok := repo.categories[category.ID]; !ok {
		t.Fatal("category should not be deleted while items remain")
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	svc, _ := NewService(newStubCategoriesRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

type duplicateNameErr struct{}

func (duplicateNameErr) Error() string {
	return `duplicate key value violates unique constraint "idx_categories_name"`
}
