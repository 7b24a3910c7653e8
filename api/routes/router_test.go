package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/secondchance/secondchance-backend/internal/adminlog"
	authsvc "github.com/secondchance/secondchance-backend/internal/auth"
	"github.com/secondchance/secondchance-backend/internal/categories"
	"github.com/secondchance/secondchance-backend/internal/chats"
	"github.com/secondchance/secondchance-backend/internal/items"
	"github.com/secondchance/secondchance-backend/internal/locations"
	"github.com/secondchance/secondchance-backend/internal/orders"
	"github.com/secondchance/secondchance-backend/internal/reviews"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgauth "github.com/secondchance/secondchance-backend/pkg/auth"
	"github.com/secondchance/secondchance-backend/pkg/config"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, tokenID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, tokenID string) error {
	return nil
}

func (stubAuthService) Resolve(ctx context.Context, profile *pkgauth.GoogleUser) (*authsvc.AuthResponse, error) {
	panic("unimplemented")
}

type stubUsersService struct{}

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) GetPublic(ctx context.Context, id uuid.UUID) (*users.PublicUserDTO, error) {
	return &users.PublicUserDTO{ID: id}, nil
}

func (stubUsersService) List(ctx context.Context, params pagination.Params) ([]users.UserDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubUsersService) Create(ctx context.Context, adminID uuid.UUID, input users.CreateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Delete(ctx context.Context, adminID, targetID uuid.UUID) error {
	panic("unimplemented")
}

type stubItemsService struct{}

func (stubItemsService) List(ctx context.Context, filters items.ItemFilters, params pagination.Params) ([]items.ItemDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubItemsService) Landing(ctx context.Context, params pagination.Params) ([]items.ItemDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubItemsService) Search(ctx context.Context, term string, params pagination.Params) ([]items.ItemDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubItemsService) Get(ctx context.Context, id uuid.UUID) (*items.ItemDTO, error) {
	panic("unimplemented")
}

func (stubItemsService) Create(ctx context.Context, sellerID uuid.UUID, input items.CreateItemInput) (*items.ItemDTO, error) {
	return &items.ItemDTO{ID: uuid.New(), SellerID: sellerID}, nil
}

func (stubItemsService) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input items.UpdateItemInput) (*items.ItemDTO, error) {
	panic("unimplemented")
}

func (stubItemsService) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error {
	panic("unimplemented")
}

type stubCategoriesService struct{}

func (stubCategoriesService) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return nil, nil
}

func (stubCategoriesService) Get(ctx context.Context, id uuid.UUID) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoriesService) Create(ctx context.Context, input categories.CreateCategoryInput) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoriesService) Update(ctx context.Context, id uuid.UUID, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCategoriesService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubLocationsService struct{}

func (stubLocationsService) List(ctx context.Context, params pagination.Params) ([]locations.LocationDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubLocationsService) GetByUser(ctx context.Context, userID uuid.UUID) (*locations.LocationDTO, error) {
	panic("unimplemented")
}

func (stubLocationsService) Upsert(ctx context.Context, userID uuid.UUID, input locations.UpsertLocationInput) (*locations.LocationDTO, error) {
	panic("unimplemented")
}

func (stubLocationsService) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetUserID uuid.UUID) error {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) ListMine(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]orders.OrderDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubOrdersService) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) Create(ctx context.Context, buyerID uuid.UUID, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) UpdateStatus(ctx context.Context, adminID uuid.UUID, orderID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

type stubReviewsService struct{}

func (stubReviewsService) ListForItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]reviews.ReviewDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubReviewsService) Stats(ctx context.Context, itemID uuid.UUID) (*reviews.ReviewStats, error) {
	panic("unimplemented")
}

func (stubReviewsService) ListMine(ctx context.Context, reviewerID uuid.UUID, params pagination.Params) ([]reviews.ReviewDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubReviewsService) Create(ctx context.Context, reviewerID uuid.UUID, input reviews.CreateReviewInput) (*reviews.ReviewDTO, error) {
	panic("unimplemented")
}

func (stubReviewsService) Update(ctx context.Context, reviewerID, reviewID uuid.UUID, input reviews.UpdateReviewInput) (*reviews.ReviewDTO, error) {
	panic("unimplemented")
}

func (stubReviewsService) Delete(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	panic("unimplemented")
}

func (stubReviewsService) SellerRating(ctx context.Context, sellerID uuid.UUID) (float64, int64, error) {
	return 0, 0, nil
}

type stubChatsService struct{}

func (stubChatsService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]chats.ChatDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubChatsService) Create(ctx context.Context, buyerID, itemID uuid.UUID) (*chats.ChatDTO, error) {
	panic("unimplemented")
}

func (stubChatsService) Messages(ctx context.Context, actorID, chatID uuid.UUID, params pagination.Params) ([]chats.MessageDTO, pagination.Meta, error) {
	panic("unimplemented")
}

func (stubChatsService) Send(ctx context.Context, actorID, chatID uuid.UUID, content string) (*chats.MessageDTO, error) {
	panic("unimplemented")
}

type stubAdminService struct{}

func (stubAdminService) Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error {
	return nil
}

func (stubAdminService) List(ctx context.Context, params pagination.Params) ([]adminlog.LogDTO, pagination.Meta, error) {
	return nil, params.MetaFor(0), nil
}

func (stubAdminService) Stats(ctx context.Context) (*adminlog.StatsDTO, error) {
	return &adminlog.StatsDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: zerolog.DebugLevel, Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis
		nil, // metrics
		nil, // metrics handler
		stubSessionChecker{},
		nil, // google oauth
		stubAuthService{},
		stubUsersService{},
		stubItemsService{},
		stubCategoriesService{},
		stubLocationsService{},
		stubOrdersService{},
		stubReviewsService{},
		stubChatsService{},
		stubAdminService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@example.com",
		Name:   "Router Test",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"success":false`) {
		t.Fatalf("expected error envelope got %s", resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/items", "/api/landing-items", "/api/categories"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestListingRequiresSellerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"title":"Lamp","description":"Desk lamp","price":"10.00","category_id":"` + uuid.NewString() + `","condition_type":"good"}`

	buyer := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer got %d", resp.Code)
	}

	seller := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	seller.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleSeller))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, seller)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for seller got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "expired@example.com",
		Name:   "Expired",
		Role:   enums.UserRoleBuyer,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token got %d", resp.Code)
	}
}
