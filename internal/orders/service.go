// Package orders drives orders through their status lifecycle and serves
// the customer and admin read views.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/users"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// InventoryRestocker returns stock when a cancelled order is restocked.
type InventoryRestocker interface {
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type productCatalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type customerResolver interface {
	ResolveMany(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]users.Customer
}

// Service groups the lifecycle and query operations.
type Service interface {
	Cancel(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor Actor) (*models.Order, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor Actor) (*models.Order, error)

	ListOwnOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAdminOrders(ctx context.Context, filters AdminOrderFilters, params pagination.Params) (*OrderList, error)
	GetOrderDetail(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error)
}

// ServiceParams wires the order service.
type ServiceParams struct {
	Repository      Repository
	Tx              txRunner
	Outbox          outboxPublisher
	Inventory       InventoryRestocker
	Products        productCatalog
	Customers       customerResolver
	Logger          *logger.Logger
	Bounds          pagination.Bounds
	RestockOnCancel bool
}

type service struct {
	repo            Repository
	tx              txRunner
	outbox          outboxPublisher
	inventory       InventoryRestocker
	products        productCatalog
	customers       customerResolver
	logg            *logger.Logger
	bounds          pagination.Bounds
	restockOnCancel bool
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory restocker required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer resolver required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:            params.Repository,
		tx:              params.Tx,
		outbox:          params.Outbox,
		inventory:       params.Inventory,
		products:        params.Products,
		customers:       params.Customers,
		logg:            params.Logger,
		bounds:          params.Bounds,
		restockOnCancel: params.RestockOnCancel,
	}, nil
}
