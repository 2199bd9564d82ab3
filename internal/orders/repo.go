package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus, from ...enums.OrderStatus) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListAdmin(ctx context.Context, filters AdminOrderFilters, params pagination.Params) ([]models.Order, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// UpdateStatus sets the status. When from is non-empty the row is only
// updated if its current status is one of them; the affected row count tells
// the caller whether the guard held.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus, from ...enums.OrderStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	res := q.Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Order
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListAdmin applies the status and free-text filters. The users join is a
// LEFT JOIN so orders whose owner row is missing still match on reference.
func (r *repository) ListAdmin(ctx context.Context, filters AdminOrderFilters, params pagination.Params) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).
		Table("orders AS o").
		Joins("LEFT JOIN users u ON u.id = o.user_id")

	if filters.Status != nil {
		base = base.Where("o.status = ?", *filters.Status)
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		base = base.Where(
			`(LOWER(o.reference) LIKE ? ESCAPE '\' OR LOWER(u.first_name) LIKE ? ESCAPE '\' OR LOWER(u.last_name) LIKE ? ESCAPE '\' OR LOWER(u.first_name || ' ' || u.last_name) LIKE ? ESCAPE '\')`,
			like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filters.Sort.normalized()
	var rows []models.Order
	err := base.Session(&gorm.Session{}).
		Select("o.*").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "o", Name: string(sort.Field)}, Desc: sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "o", Name: "id"}, Desc: sort.Desc}).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
