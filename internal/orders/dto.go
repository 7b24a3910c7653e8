package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/secondchance/secondchance-backend/pkg/db/models"
	"github.com/secondchance/secondchance-backend/pkg/enums"
)

// OrderItemDTO is one purchased line inside an order payload.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	Title           string          `json:"title,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// PaymentDTO is the settlement block inside an order payload.
type PaymentDTO struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        enums.PaymentMethod `json:"method"`
	Status        enums.PaymentStatus `json:"status"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
}

// OrderDTO is the transport shape for a buyer order.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderItemDTO    `json:"items"`
	Payment     *PaymentDTO       `json:"payment,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderLineInput is one requested listing in a checkout payload.
type OrderLineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// CreateOrderInput carries the checkout payload.
type CreateOrderInput struct {
	Lines         []OrderLineInput
	PaymentMethod enums.PaymentMethod
}

func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	dto := &OrderDTO{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, line := range order.Items {
		item := OrderItemDTO{
			ID:              line.ID,
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		}
		if line.Item != nil {
			item.Title = line.Item.Title
		}
		dto.Items = append(dto.Items, item)
	}
	if order.Payment != nil {
		dto.Payment = &PaymentDTO{
			ID:            order.Payment.ID,
			Amount:        order.Payment.Amount,
			Method:        order.Payment.Method,
			Status:        order.Payment.Status,
			TransactionID: order.Payment.TransactionID,
			PaidAt:        order.Payment.PaidAt,
		}
	}
	return dto
}

func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
