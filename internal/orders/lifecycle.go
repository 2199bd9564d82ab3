package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
)

var cancellableFrom = []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusProcessing}

func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error) {
	var result *models.Order
	restocked := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !actor.CanView(order) {
			return forbidden()
		}
		if !order.Status.IsCancellable() {
			return invalidTransition(order.Status, enums.OrderStatusCancelled)
		}

		affected, err := repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled, cancellableFrom...)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if affected == 0 {
			// moved out of a cancellable state after the read
			return invalidTransition(order.Status, enums.OrderStatusCancelled)
		}

		if s.restockOnCancel {
			items, err := repo.ListItems(ctx, orderID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
			}
			for _, item := range items {
				if err := s.inventory.Restock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock order item")
				}
			}
			restocked = true
		}

		if err := s.emitStatusChanged(ctx, tx, order, enums.OrderStatusCancelled, actor, restocked); err != nil {
			return err
		}

		result, err = repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		s.logStatusChange(ctx, order, enums.OrderStatusCancelled, actor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetStatus is the admin override: any of the six statuses, no transition table.
func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor Actor) (*models.Order, error) {
	return s.changeStatus(ctx, orderID, status, actor, false)
}

// TransitionStatus is the strict admin path enforcing OrderStatus.CanTransitionTo.
func (s *service) TransitionStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor Actor) (*models.Order, error) {
	return s.changeStatus(ctx, orderID, status, actor, true)
}

func (s *service) changeStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor Actor, strict bool) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, forbidden()
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(status), "allowed": enums.OrderStatuses()})
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if strict && !order.Status.CanTransitionTo(status) {
			return invalidTransition(order.Status, status)
		}
		if order.Status == status {
			result = order
			return nil
		}

		affected, err := repo.UpdateStatus(ctx, orderID, status, order.Status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		if affected == 0 {
			return invalidTransition(order.Status, status)
		}
		if err := s.emitStatusChanged(ctx, tx, order, status, actor, false); err != nil {
			return err
		}
		result, err = repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		s.logStatusChange(ctx, order, status, actor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) emitStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, to enums.OrderStatus, actor Actor, restocked bool) error {
	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: string(actor.Role)},
		Data: outbox.OrderStatusChangedEvent{
			OrderID:   order.ID,
			Reference: order.Reference,
			From:      order.Status,
			To:        to,
			Restocked: restocked,
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order status event")
	}
	return nil
}

func (s *service) logStatusChange(ctx context.Context, order *models.Order, to enums.OrderStatus, actor Actor) {
	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"from":       order.Status,
		"to":         to,
		"actor_id":   actor.UserID.String(),
		"actor_role": actor.Role,
	})
	s.logg.Info(logCtx, "orders.status.changed")
}

func loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func forbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to access this order")
}

func invalidTransition(from, to enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order status transition not allowed").
		WithDetails(map[string]any{"from": string(from), "to": string(to)})
}
