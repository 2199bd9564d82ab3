package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

// Product is the catalog row. Checkout reads price and stock and decrements
// stock; everything else belongs to catalog management.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice decimal.NullDecimal `gorm:"column:discount_price;type:numeric(12,2)"`
	Stock         int                 `gorm:"column:stock;not null;default:0"`
	Images        types.ImageList     `gorm:"column:images;type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the discount price when present, else the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// IsDiscounted reports whether a discount price applies.
func (p Product) IsDiscounted() bool {
	return p.DiscountPrice.Valid
}
