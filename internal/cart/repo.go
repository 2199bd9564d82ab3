package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
)

// Repository defines persistence operations for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartItem, error)
	FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	UpsertLine(ctx context.Context, line *models.CartItem) error
	UpdateLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, quantity int) (int64, error)
	DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) (int64, error)
	DeleteLines(ctx context.Context, cartID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("id = ?", cartID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repository) FindLine(ctx context.Context, cartID, lineID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// UpsertLine inserts the line or, when (cart_id, product_id) already exists,
// adds its quantity to the stored one in a single statement.
func (r *repository) UpsertLine(ctx context.Context, line *models.CartItem) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(line).Error
}

func (r *repository) UpdateLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
