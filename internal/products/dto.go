package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the authoritative price and stock of a product at one instant.
type Snapshot struct {
	ID         uuid.UUID
	Name       string
	UnitPrice  decimal.Decimal
	Discounted bool
	Stock      int
}
