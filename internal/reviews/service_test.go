package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type stubReviewsRepo struct {
	reviews   map[uuid.UUID]*models.Review
	createErr error
	deleted   []uuid.UUID
}

func newStubReviewsRepo() *stubReviewsRepo {
	return &stubReviewsRepo{reviews: map[uuid.UUID]*models.Review{}}
}

func (s *stubReviewsRepo) ListByItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		if r.ItemID == itemID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubReviewsRepo) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubReviewsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if r, ok := s.reviews[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewsRepo) Create(ctx context.Context, review *models.Review) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.reviews {
		if existing.ItemID == review.ItemID && existing.ReviewerID == review.ReviewerID {
			return duplicateReviewErr{}
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	s.reviews[review.ID] = review
	return nil
}

func (s *stubReviewsRepo) Update(ctx context.Context, id uuid.UUID, input UpdateReviewInput) (*models.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if input.Rating != nil {
		r.Rating = *input.Rating
	}
	if input.Comment != nil {
		r.Comment = input.Comment
	}
	return r, nil
}

func (s *stubReviewsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.reviews, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubReviewsRepo) StatsForItem(ctx context.Context, itemID uuid.UUID) (*ReviewStats, error) {
	stats := &ReviewStats{Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, r := range s.reviews {
		if r.ItemID == itemID {
			stats.Distribution[r.Rating]++
			stats.Count++
			sum += int64(r.Rating)
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (s *stubReviewsRepo) SellerAverage(ctx context.Context, sellerID uuid.UUID) (float64, int64, error) {
	return 0, 0, nil
}

type stubReviewItemFinder struct {
	items map[uuid.UUID]*models.Item
}

func newStubReviewItemFinder() *stubReviewItemFinder {
	return &stubReviewItemFinder{items: map[uuid.UUID]*models.Item{}}
}

func (s *stubReviewItemFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewItemFinder) add() *models.Item {
	item := &models.Item{ID: uuid.New(), Title: "Reviewed Item"}
	s.items[item.ID] = item
	return item
}

type duplicateReviewErr struct{}

func (duplicateReviewErr) Error() string {
	return `duplicate key value violates unique constraint "idx_reviews_item_reviewer"`
}

func newReviewsService(t *testing.T, repo *stubReviewsRepo, items *stubReviewItemFinder) Service {
	t.Helper()

	svc, err := NewService(repo, items)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedReview(repo *stubReviewsRepo, itemID, reviewerID uuid.UUID, rating int) *models.Review {
	review := &models.Review{
		ID:         uuid.New(),
		ItemID:     itemID,
		ReviewerID: reviewerID,
		Rating:     rating,
	}
	repo.reviews[review.ID] = review
	return review
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	items := newStubReviewItemFinder()
	item := items.add()
	svc := newReviewsService(t, newStubReviewsRepo(), items)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{ItemID: item.ID, Rating: rating})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation code, got %v", rating, err)
		}
	}
}

func TestCreateSecondReviewConflicts(t *testing.T) {
	repo := newStubReviewsRepo()
	items := newStubReviewItemFinder()
	item := items.add()
	svc := newReviewsService(t, repo, items)
	reviewer := uuid.New()

	if _, err := svc.Create(context.Background(), reviewer, CreateReviewInput{ItemID: item.ID, Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Create(context.Background(), reviewer, CreateReviewInput{ItemID: item.ID, Rating: 5})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestCreateMissingItemNotFound(t *testing.T) {
	svc := newReviewsService(t, newStubReviewsRepo(), newStubReviewItemFinder())

	_, err := svc.Create(context.Background(), uuid.New(), CreateReviewInput{ItemID: uuid.New(), Rating: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestUpdateRejectsForeignReview(t *testing.T) {
	repo := newStubReviewsRepo()
	items := newStubReviewItemFinder()
	review := seedReview(repo, uuid.New(), uuid.New(), 3)
	svc := newReviewsService(t, repo, items)

	rating := 5
	_, err := svc.Update(context.Background(), uuid.New(), review.ID, UpdateReviewInput{Rating: &rating})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
}

func TestDeleteHasNoAdminOverride(t *testing.T) {
	repo := newStubReviewsRepo()
	items := newStubReviewItemFinder()
	review := seedReview(repo, uuid.New(), uuid.New(), 2)
	svc := newReviewsService(t, repo, items)

	// Any non-reviewer caller is rejected, admins included.
	err := svc.Delete(context.Background(), uuid.New(), review.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("delete should not run for a foreign review")
	}
}

func TestDeleteByReviewer(t *testing.T) {
	repo := newStubReviewsRepo()
	items := newStubReviewItemFinder()
	reviewer := uuid.New()
	review := seedReview(repo, uuid.New(), reviewer, 2)
	svc := newReviewsService(t, repo, items)

	if err := svc.Delete(context.Background(), reviewer, review.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != review.ID {
		t.Fatalf("expected review deleted, got %v", repo.deleted)
	}
}

func TestStatsAveragesRatings(t *testing.T) {
	repo := newStubReviewsRepo()
	items := newStubReviewItemFinder()
	item := items.add()
	seedReview(repo, item.ID, uuid.New(), 5)
	seedReview(repo, item.ID, uuid.New(), 3)
	svc := newReviewsService(t, repo, items)

	stats, err := svc.Stats(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Count != 2 {
		t.Fatalf("expected 2 reviews, got %d", stats.Count)
	}
	if stats.Average != 4.0 {
		t.Fatalf("expected average 4.0, got %f", stats.Average)
	}
	if stats.Distribution[5] != 1 || stats.Distribution[3] != 1 {
		t.Fatalf("unexpected distribution %v", stats.Distribution)
	}
}
