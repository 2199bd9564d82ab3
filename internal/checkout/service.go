// Package checkout converts a user's cart into an order in one transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/products"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/metrics"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
)

const (
	defaultTimeout     = 10 * time.Second
	maxReferenceTries  = 2
	referenceIndexName = "ux_orders_reference"
	referenceColumn    = "orders.reference"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Inventory re-reads products and decrements stock inside the checkout transaction.
type Inventory interface {
	Load(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]products.Snapshot, error)
	Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type recorder interface {
	Observe(outcome string, elapsed time.Duration)
	IncReferenceRetry()
}

// Service executes checkout.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDetail, error)
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Tx         txRunner
	Carts      cart.Repository
	Orders     orders.Repository
	Inventory  Inventory
	Outbox     outboxPublisher
	Metrics    recorder
	Logger     *logger.Logger
	Timeout    time.Duration
	References ReferenceGenerator
}

type service struct {
	tx         txRunner
	carts      cart.Repository
	orders     orders.Repository
	inventory  Inventory
	outbox     outboxPublisher
	metrics    recorder
	logg       *logger.Logger
	timeout    time.Duration
	references ReferenceGenerator
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewCheckoutMetrics(nil)
	}
	if params.Timeout <= 0 {
		params.Timeout = defaultTimeout
	}
	if params.References == nil {
		params.References = NewReference
	}
	return &service{
		tx:         params.Tx,
		carts:      params.Carts,
		orders:     params.Orders,
		inventory:  params.Inventory,
		outbox:     params.Outbox,
		metrics:    params.Metrics,
		logg:       params.Logger,
		timeout:    params.Timeout,
		references: params.References,
	}, nil
}

// Checkout turns the user's cart into a pending order. Either the order, its
// lines, every stock decrement and the cart clear commit together, or none do.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDetail, error) {
	started := time.Now()
	ctx = s.logg.WithUserID(ctx, userID.String())

	detail, err := s.checkout(ctx, userID, input)
	outcome := outcomeFor(err)
	s.metrics.Observe(outcome, time.Since(started))

	if err != nil {
		logCtx := s.logg.WithField(ctx, "outcome", outcome)
		if outcome == metrics.CheckoutOutcomeFailed {
			s.logg.Error(logCtx, "checkout.failed", err)
		} else {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "checkout.rejected")
		}
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, detail.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"reference":   detail.Reference,
		"total_price": detail.TotalPrice.String(),
		"line_count":  len(detail.Items),
	})
	s.logg.Info(logCtx, "checkout.completed")
	return detail, nil
}

func (s *service) checkout(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDetail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emptyCart()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "load cart")
	}
	lines, err := s.carts.ListLines(ctx, userCart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "load cart lines")
	}
	if len(lines) == 0 {
		return nil, emptyCart()
	}

	var lastErr error
	for attempt := 0; attempt < maxReferenceTries; attempt++ {
		reference, err := s.references()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "generate order reference")
		}
		detail, err := s.placeOrder(ctx, userID, userCart.ID, reference, input)
		if err == nil {
			return detail, nil
		}
		if !db.IsUniqueViolation(err, referenceIndexName, referenceColumn) {
			return nil, classify(err)
		}
		lastErr = err
		if attempt+1 < maxReferenceTries {
			s.metrics.IncReferenceRetry()
			s.logg.Warn(s.logg.WithField(ctx, "reference", reference), "checkout.reference_collision")
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, lastErr, "could not allocate a unique order reference")
}

// placeOrder runs one bounded transaction. Everything it reads is re-read
// under tx so prices and stock are authoritative at commit time.
func (s *service) placeOrder(ctx context.Context, userID, cartID uuid.UUID, reference string, input Input) (*orders.OrderDetail, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		created models.Order
		names   = map[uuid.UUID]string{}
	)
	err := s.tx.WithTx(txCtx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		lines, err := carts.ListLines(txCtx, cartID)
		if err != nil {
			return fmt.Errorf("reload cart lines: %w", err)
		}
		if len(lines) == 0 {
			return emptyCart()
		}

		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		catalog, err := s.inventory.Load(txCtx, tx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		orderID := uuid.New()
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, ok := catalog[line.ProductID]
			if !ok {
				return products.ProductNotFound(line.ProductID)
			}
			names[product.ID] = product.Name
			total = total.Add(product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.UnitPrice,
			})
		}

		created = models.Order{
			ID:         orderID,
			UserID:     userID,
			Reference:  reference,
			Status:     enums.OrderStatusPending,
			Shipping:   input.shipping(),
			Phone:      input.Phone,
			Notes:      input.Notes,
			TotalPrice: total,
		}
		if err := orderRepo.CreateOrder(txCtx, &created); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := orderRepo.CreateOrderItems(txCtx, items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		for _, item := range items {
			ok, err := s.inventory.Decrement(txCtx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return insufficientStock(item, catalog[item.ProductID].Stock)
			}
		}

		if err := carts.DeleteLines(txCtx, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		eventItems := make([]outbox.OrderCreatedItem, 0, len(items))
		for _, item := range items {
			eventItems = append(eventItems, outbox.OrderCreatedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := s.outbox.Emit(txCtx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(enums.UserRoleCustomer)},
			Data: outbox.OrderCreatedEvent{
				OrderID:    created.ID,
				Reference:  created.Reference,
				UserID:     userID,
				TotalPrice: total,
				Items:      eventItems,
				CreatedAt:  created.CreatedAt,
			},
		}); err != nil {
			return fmt.Errorf("emit order_created: %w", err)
		}

		created.Items = items
		return nil
	})
	if err != nil {
		if txCtx.Err() != nil && pkgerrors.As(err) == nil {
			return nil, fmt.Errorf("checkout transaction aborted: %w", errors.Join(txCtx.Err(), err))
		}
		return nil, err
	}

	detail := orders.NewOrderDetail(created, names)
	return &detail, nil
}

// classify passes through the typed checkout outcomes and folds everything
// else into CHECKOUT_FAILED.
func classify(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeEmptyCart, pkgerrors.CodeInsufficientStock, pkgerrors.CodeProductNotFound, pkgerrors.CodeValidation:
			return typed
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "checkout failed")
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.CheckoutOutcomeSuccess
	case pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart):
		return metrics.CheckoutOutcomeEmptyCart
	case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock):
		return metrics.CheckoutOutcomeInsufficientStock
	case pkgerrors.IsCode(err, pkgerrors.CodeProductNotFound):
		return metrics.CheckoutOutcomeProductNotFound
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return metrics.CheckoutOutcomeInvalid
	default:
		return metrics.CheckoutOutcomeFailed
	}
}

func emptyCart() error {
	return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
}

func insufficientStock(item models.OrderItem, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": item.ProductID.String(),
			"requested":  item.Quantity,
			"available":  available,
		})
}
