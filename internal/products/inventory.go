package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory adjusts stock inside a caller-owned transaction.
type Inventory struct {
	repo *Repository
}

// NewInventory wraps repo.
func NewInventory(repo *Repository) *Inventory {
	return &Inventory{repo: repo}
}

// Decrement removes qty from stock when available. False means insufficient stock.
func (i *Inventory) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	return i.repo.WithTx(tx).DecrementStock(ctx, productID, qty)
}

// Restock puts qty back on the shelf.
func (i *Inventory) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	return i.repo.WithTx(tx).Restock(ctx, productID, qty)
}

// Load re-reads products inside tx.
func (i *Inventory) Load(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]Snapshot, error) {
	rows, err := i.repo.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]Snapshot, len(rows))
	for id, row := range rows {
		out[id] = Snapshot{
			ID:         row.ID,
			Name:       row.Name,
			UnitPrice:  row.EffectivePrice(),
			Discounted: row.IsDiscounted(),
			Stock:      row.Stock,
		}
	}
	return out, nil
}
