package middleware

import (
	"net/http"

	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	pkgAuth "github.com/ghassen-kharrat/barbachli-sub000/pkg/auth"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

// Auth rejects requests without a valid bearer token with 401 and otherwise
// places the caller's {userId, role} on the request context.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := pkgAuth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithActor(r.Context(), claims.UserID, claims.Role)
			if logg != nil {
				ctx = logg.WithActor(ctx, claims.UserID.String(), string(claims.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
