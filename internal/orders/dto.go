package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/users"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

// StatusFilterAll disables the admin status filter.
const StatusFilterAll = "all"

// Actor is the authenticated caller of an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// CanView reports whether the actor may see or cancel the order.
func (a Actor) CanView(order *models.Order) bool {
	return a.IsAdmin() || (order != nil && order.UserID == a.UserID)
}

// SortField is an allow-listed admin sort column.
type SortField string

const (
	SortCreatedAt  SortField = "created_at"
	SortTotalPrice SortField = "total_price"
	SortStatus     SortField = "status"
	SortReference  SortField = "reference"
)

var sortableFields = map[SortField]struct{}{
	SortCreatedAt:  {},
	SortTotalPrice: {},
	SortStatus:     {},
	SortReference:  {},
}

// Sort selects the admin list ordering.
type Sort struct {
	Field SortField
	Desc  bool
}

// ParseSort validates raw query values against the allow-list. Unknown fields
// fall back to newest first; unknown directions fall back to descending.
func ParseSort(field, direction string) Sort {
	s := Sort{Field: SortField(strings.ToLower(strings.TrimSpace(field))), Desc: true}
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		s.Desc = false
	}
	return s.normalized()
}

func (s Sort) normalized() Sort {
	if _, ok := sortableFields[s.Field]; !ok {
		return Sort{Field: SortCreatedAt, Desc: true}
	}
	return s
}

// AdminOrderFilters describes the admin listing inputs.
type AdminOrderFilters struct {
	Status *enums.OrderStatus
	Search string
	Sort   Sort
}

// ParseStatusFilter maps the raw status query value. Empty and "all" mean no filter.
func ParseStatusFilter(raw string) (*enums.OrderStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == StatusFilterAll {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// OrderSummary is the list view of an order, without line items.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Reference     string              `json:"reference"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	Shipping      types.ShippingInfo  `json:"shipping"`
	Phone         string              `json:"phone"`
	Notes         *string             `json:"notes,omitempty"`
	Customer      *users.Customer     `json:"customer,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewOrderSummary converts an order row.
func NewOrderSummary(order models.Order) OrderSummary {
	return OrderSummary{
		ID:            order.ID,
		UserID:        order.UserID,
		Reference:     order.Reference,
		Status:        order.Status,
		PaymentStatus: enums.PaymentStatusFor(order.Status),
		TotalPrice:    order.TotalPrice,
		Shipping:      order.Shipping,
		Phone:         order.Phone,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// OrderLine is an order item enriched with current product data. Only the
// unit price is frozen; name and images reflect the catalog at read time.
type OrderLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Images      types.ImageList `json:"images"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDetail is the single-order view.
type OrderDetail struct {
	OrderSummary
	Items []OrderLine `json:"items"`
}

// OrderList is a page of orders.
type OrderList struct {
	Orders     []OrderSummary  `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}
