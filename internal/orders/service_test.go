package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	orders      map[uuid.UUID]*models.Order
	items       map[uuid.UUID]*models.Item
	statusCalls int
	beforeMark  func()
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{},
		items:  map[uuid.UUID]*models.Item{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	for _, line := range items {
		if order, ok := s.orders[line.OrderID]; ok {
			order.Items = append(order.Items, line)
		}
	}
	return nil
}

func (s *stubOrdersRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if order, ok := s.orders[payment.OrderID]; ok {
		order.Payment = payment
	}
	return nil
}

func (s *stubOrdersRepo) FindItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) MarkItemsUnavailable(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if s.beforeMark != nil {
		s.beforeMark()
	}
	var claimed int64
	for _, id := range ids {
		if item, ok := s.items[id]; ok && item.IsAvailable {
			item.IsAvailable = false
			claimed++
		}
	}
	return claimed, nil
}

func (s *stubOrdersRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	out := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	s.statusCalls++
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func (s *stubOrdersRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

type stubOrdersTx struct{}

func (stubOrdersTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrdersAudit struct {
	records []enums.AdminAction
}

func (s *stubOrdersAudit) Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error {
	s.records = append(s.records, action)
	return nil
}

func seedListing(repo *stubOrdersRepo, price string, available bool) *models.Item {
	item := &models.Item{
		ID:          uuid.New(),
		Title:       "Stub Listing",
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	repo.items[item.ID] = item
	return item
}

func seedOrder(repo *stubOrdersRepo, buyerID uuid.UUID, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		Status:      status,
		TotalAmount: decimal.RequireFromString("10.00"),
	}
	repo.orders[order.ID] = order
	return order
}

func newOrdersService(t *testing.T, repo *stubOrdersRepo, audit auditRecorder) Service {
	t.Helper()

	svc, err := NewService(repo, stubOrdersTx{}, audit)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc := newOrdersService(t, newStubOrdersRepo(), nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateRejectsUnknownItem(t *testing.T) {
	svc := newOrdersService(t, newStubOrdersRepo(), nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Lines:         []OrderLineInput{{ItemID: uuid.New(), Quantity: 1}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateRejectsDuplicateLines(t *testing.T) {
	repo := newStubOrdersRepo()
	item := seedListing(repo, "9.99", true)
	svc := newOrdersService(t, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Lines: []OrderLineInput{
			{ItemID: item.ID, Quantity: 1},
			{ItemID: item.ID, Quantity: 2},
		},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateSnapshotsPriceAndTotal(t *testing.T) {
	repo := newStubOrdersRepo()
	item := seedListing(repo, "12.50", true)
	svc := newOrdersService(t, repo, nil)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Lines:         []OrderLineInput{{ItemID: item.ID, Quantity: 2}},
		PaymentMethod: enums.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.TotalAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected total 25.00, got %s", dto.TotalAmount)
	}
	if len(dto.Items) != 1 || !dto.Items[0].PriceAtPurchase.Equal(item.Price) {
		t.Fatalf("expected price snapshot %s, got %+v", item.Price, dto.Items)
	}
	if repo.items[item.ID].IsAvailable {
		t.Fatal("expected listing marked unavailable after purchase")
	}
}

func TestCreateRejectsListingClaimedMidCheckout(t *testing.T) {
	repo := newStubOrdersRepo()
	item := seedListing(repo, "30.00", true)
	// Another buyer claims the listing after our availability read.
	repo.beforeMark = func() {
		repo.items[item.ID].IsAvailable = false
	}
	svc := newOrdersService(t, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Lines:         []OrderLineInput{{ItemID: item.ID, Quantity: 1}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestGetRejectsForeignOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	order := seedOrder(repo, uuid.New(), enums.OrderPending)
	svc := newOrdersService(t, repo, nil)

	_, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleBuyer, order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
}

func TestGetAllowsAdmin(t *testing.T) {
	repo := newStubOrdersRepo()
	order := seedOrder(repo, uuid.New(), enums.OrderPending)
	svc := newOrdersService(t, repo, nil)

	dto, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleAdmin, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, dto.ID)
	}
}

func TestUpdateStatusRejectsFinalizedOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	order := seedOrder(repo, uuid.New(), enums.OrderCompleted)
	svc := newOrdersService(t, repo, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), order.ID, enums.OrderCancelled)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
	if repo.statusCalls != 0 {
		t.Fatal("status update should not run on a finalized order")
	}
}

func TestUpdateStatusRecordsAudit(t *testing.T) {
	repo := newStubOrdersRepo()
	order := seedOrder(repo, uuid.New(), enums.OrderPending)
	audit := &stubOrdersAudit{}
	svc := newOrdersService(t, repo, audit)

	dto, err := svc.UpdateStatus(context.Background(), uuid.New(), order.ID, enums.OrderPaid)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.OrderPaid {
		t.Fatalf("expected status paid, got %s", dto.Status)
	}
	if len(audit.records) != 1 || audit.records[0] != enums.AdminActionOrderUpdated {
		t.Fatalf("expected one order_updated audit entry, got %v", audit.records)
	}
}
