package orders

import (
	"context"
	"errors"
	"fmt"

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

type auditRecorder interface {
	Record(ctx context.Context, adminID uuid.UUID, action enums.AdminAction, targetType string, targetID uuid.UUID, detail *string) error
}

// Service exposes buyer checkout and order lookup operations.
type Service interface {
	ListMine(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, adminID uuid.UUID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit auditRecorder
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, audit auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, audit: audit}, nil
}

func (s *service) ListMine(ctx context.Context, buyerID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error) {
	rows, total, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(rows), params.MetaFor(total), nil
}

// Get returns the order when the actor is its buyer or an admin.
func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	if order.BuyerID != actorID && actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	return FromModel(order), nil
}

func (s *service) Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	itemIDs := make([]uuid.UUID, 0, len(input.Lines))
	seen := map[uuid.UUID]bool{}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if seen[line.ItemID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in order")
		}
		seen[line.ItemID] = true
		itemIDs = append(itemIDs, line.ItemID)
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		items, err := repo.FindItemsByIDs(ctx, itemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		byID := make(map[uuid.UUID]*models.Item, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			item, ok := byID[line.ItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not exist")
			}
			if !item.IsAvailable {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q is no longer available", item.Title))
			}
			lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			lines = append(lines, models.OrderItem{
				ItemID:          item.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: item.Price,
			})
		}

		order := &models.Order{
			BuyerID:     buyerID,
			Status:      enums.OrderPending,
			TotalAmount: total,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}
		if err := repo.CreatePayment(ctx, &models.Payment{
			OrderID: order.ID,
			Amount:  total,
			Method:  input.PaymentMethod,
			Status:  enums.PaymentPending,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		// Purchased listings come off the market in the same transaction.
		// The conditional update is the real availability gate: a listing
		// claimed by a concurrent checkout rolls this order back.
		claimed, err := repo.MarkItemsUnavailable(ctx, itemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark items sold")
		}
		if claimed != int64(len(itemIDs)) {
			return pkgerrors.New(pkgerrors.CodeConflict, "an item in this order was just purchased by another buyer")
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	return FromModel(order), nil
}

// UpdateStatus is an admin lever; every change lands in the audit log.
func (s *service) UpdateStatus(ctx context.Context, adminID uuid.UUID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already finalized")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	if s.audit != nil {
		detail := fmt.Sprintf("%s -> %s", order.Status, status)
		// Audit failures never block the mutation itself.
		_ = s.audit.Record(ctx, adminID, enums.AdminActionOrderUpdated, "order", orderID, &detail)
	}

	updated, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	return FromModel(updated), nil
}

func mapOrderLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
