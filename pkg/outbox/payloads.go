package outbox

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

// OrderCreatedItem is one frozen order line.
type OrderCreatedItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderCreatedEvent is emitted once per successful checkout.
type OrderCreatedEvent struct {
	OrderID    uuid.UUID          `json:"orderId"`
	Reference  string             `json:"reference"`
	UserID     uuid.UUID          `json:"userId"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	Items      []OrderCreatedItem `json:"items"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// OrderStatusChangedEvent is emitted on cancellation and admin status changes.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"orderId"`
	Reference string            `json:"reference"`
	From      enums.OrderStatus `json:"from"`
	To        enums.OrderStatus `json:"to"`
	Restocked bool              `json:"restocked,omitempty"`
}
