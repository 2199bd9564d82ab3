// Package products is the product collaborator used by cart, checkout and
// order reads: price lookup, conditional stock decrement and restock.
package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
)

// Repository reads products and adjusts stock.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a product. A zero ID is replaced with a new UUID.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads one product; a missing row yields PRODUCT_NOT_FOUND.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ProductNotFound(id)
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products keyed by id. Missing ids are simply absent from the map.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// DecrementStock subtracts qty only when enough stock remains. It reports
// false without error when the row exists but stock is short.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?",
		qty, time.Now().UTC(), id, qty,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Restock returns qty units to the product.
func (r *Repository) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?",
		qty, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ProductNotFound(id)
	}
	return nil
}

// ProductNotFound builds the PRODUCT_NOT_FOUND error naming id.
func ProductNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
		WithDetails(map[string]any{"product_id": id.String()})
}
