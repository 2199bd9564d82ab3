package orders

import (
	"net/http"

	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	"github.com/ghassen-kharrat/barbachli-sub000/api/validators"
	internalorders "github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
)

// AdminList serves GET /admin/orders with page, limit, status, search, sort and order.
func AdminList(svc internalorders.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		q := r.URL.Query()
		status, err := internalorders.ParseStatusFilter(q.Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").
				WithDetails(map[string]any{"field": "status"}))
			return
		}
		filters := internalorders.AdminOrderFilters{
			Status: status,
			Search: validators.SanitizeString(q.Get("search"), maxSearchLength),
			Sort:   internalorders.ParseSort(q.Get("sort"), q.Get("order")),
		}

		list, err := svc.ListAdminOrders(r.Context(), filters, validators.ParsePagination(r, bounds))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateStatus sets an order status as an admin. The permissive override is
// used unless strict is configured or requested in the body.
func UpdateStatus(svc internalorders.Service, strictByDefault bool, logg *logger.Logger) http.HandlerFunc {
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
		var payload StatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		update := svc.SetStatus
		if strictByDefault || payload.Strict {
			update = svc.TransitionStatus
		}
		order, err := update(r.Context(), orderID, payload.status(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderSummary(*order))
	}
}
