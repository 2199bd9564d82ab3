package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

// SnapshotLine is one priced cart line as of the read.
type SnapshotLine struct {
	LineID     uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Images     types.ImageList `json:"images"`
	Quantity   int             `json:"quantity"`
	ListPrice  decimal.Decimal `json:"price"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discounted bool            `json:"discounted"`
	LineTotal  decimal.Decimal `json:"line_total"`
	Stock      int             `json:"stock"`
	Available  bool            `json:"available"`
}

// Snapshot is a best-effort priced view of a cart. Checkout re-reads
// authoritative prices and does not rely on it.
type Snapshot struct {
	CartID     uuid.UUID       `json:"cart_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Lines      []SnapshotLine  `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
