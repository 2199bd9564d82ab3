// Package cart exposes the caller's cart over HTTP. Every handler resolves
// the cart from the authenticated user; clients never address a cart by id.
package cart

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/api/middleware"
	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	"github.com/ghassen-kharrat/barbachli-sub000/api/validators"
	cartsvc "github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

// Fetch returns the priced snapshot of the caller's cart.
func Fetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := resolveCart(w, r, svc, logg)
		if !ok {
			return
		}
		writeSnapshot(w, r, svc, cartID, logg)
	}
}

// AddLine adds a product to the cart, merging with an existing line.
func AddLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, ok := resolveCart(w, r, svc, logg)
		if !ok {
			return
		}
		if _, err := svc.AddLine(r.Context(), cartID, payload.ProductID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSnapshot(w, r, svc, cartID, logg)
	}
}

// SetLineQuantity replaces the quantity of one line.
func SetLineQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParseUUIDParam(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload SetLineQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, ok := resolveCart(w, r, svc, logg)
		if !ok {
			return
		}
		if _, err := svc.SetLineQuantity(r.Context(), cartID, lineID, *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSnapshot(w, r, svc, cartID, logg)
	}
}

func RemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := validators.ParseUUIDParam(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, ok := resolveCart(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.RemoveLine(r.Context(), cartID, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSnapshot(w, r, svc, cartID, logg)
	}
}

func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := resolveCart(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSnapshot(w, r, svc, cartID, logg)
	}
}

func resolveCart(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return uuid.Nil, false
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	cart, err := svc.GetOrCreateCart(r.Context(), actor.UserID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, false
	}
	return cart.ID, true
}

func writeSnapshot(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, cartID uuid.UUID, logg *logger.Logger) {
	snapshot, err := svc.Snapshot(r.Context(), cartID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, snapshot)
}
