package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

// Order is created once at checkout. TotalPrice is frozen at that moment.
type Order struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Reference  string             `gorm:"column:reference;not null;uniqueIndex:ux_orders_reference"`
	Status     enums.OrderStatus  `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Shipping   types.ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_"`
	Phone      string             `gorm:"column:phone;not null"`
	Notes      *string            `gorm:"column:notes"`
	TotalPrice decimal.Decimal    `gorm:"column:total_price;type:numeric(12,2);not null"`
	Items      []OrderItem        `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the immutable price snapshot of one cart line.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal returns unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
