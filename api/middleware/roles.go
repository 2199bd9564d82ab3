package middleware

import (
	"net/http"
	"slices"

	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

// RequireRole admits callers holding one of allowed. It must run after Auth;
// a request without an actor is answered 401, a wrong role 403.
func RequireRole(logg *logger.Logger, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			switch {
			case !ok:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			case !slices.Contains(allowed, actor.Role):
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
