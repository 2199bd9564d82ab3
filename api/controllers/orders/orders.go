package orders

import (
	"net/http"

	"github.com/ghassen-kharrat/barbachli-sub000/api/middleware"
	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	"github.com/ghassen-kharrat/barbachli-sub000/api/validators"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/checkout"
	internalorders "github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
)

// Checkout converts the caller's cart into a pending order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Checkout(r.Context(), actor.UserID, payload.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// List returns the caller's own orders, newest first.
func List(svc internalorders.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		list, err := svc.ListOwnOrders(r.Context(), actor.UserID, validators.ParsePagination(r, bounds))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns one order with its lines to its owner or an admin.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetOrderDetail(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Cancel moves a pending or processing order to cancelled.
func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderSummary(*order))
	}
}

func actorFromRequest(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (internalorders.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return internalorders.Actor{}, false
	}
	return actor, true
}
