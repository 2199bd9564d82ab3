package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ghassen-kharrat/barbachli-sub000/api/responses"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	pkgredis "github.com/ghassen-kharrat/barbachli-sub000/pkg/redis"
)

// RateLimitPolicy is a fixed window applied per authenticated user.
type RateLimitPolicy struct {
	Name   string
	Window time.Duration
	Limit  int
}

func (p RateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.Limit > 0
}

// UserRateLimit rejects a user's requests past Limit within Window with
// RATE_LIMIT_EXCEEDED. A redis failure fails open and is logged.
func UserRateLimit(policy RateLimitPolicy, limiter pkgredis.RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromContext(ctx)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := limiter.FixedWindowAllow(ctx, policy.Name+":"+userID, int64(policy.Limit), policy.Window)
			if err != nil {
				logError(ctx, logg, "rate_limit.check_failed", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Seconds())))
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy": policy.Name,
						"count":  count,
						"limit":  policy.Limit,
					}), "rate_limit.exceeded")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
