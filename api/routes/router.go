package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghassen-kharrat/barbachli-sub000/api/controllers"
	cartcontrollers "github.com/ghassen-kharrat/barbachli-sub000/api/controllers/cart"
	ordercontrollers "github.com/ghassen-kharrat/barbachli-sub000/api/controllers/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/api/middleware"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	checkoutsvc "github.com/ghassen-kharrat/barbachli-sub000/internal/checkout"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
	pkgredis "github.com/ghassen-kharrat/barbachli-sub000/pkg/redis"
)

// RedisStore is the redis surface the HTTP layer needs: idempotency records,
// the checkout rate limit and the readiness ping.
type RedisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
	Ping(ctx context.Context) error
}

const checkoutRateLimitName = "checkout"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisStore RedisStore,
	gatherer prometheus.Gatherer,
	checkoutService checkoutsvc.Service,
	cartService cart.Service,
	ordersSvc orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	bounds := pagination.Bounds{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}
	checkoutLimit := middleware.RateLimitPolicy{
		Name:   checkoutRateLimitName,
		Window: cfg.Checkout.RateLimitWindow,
		Limit:  cfg.Checkout.RateLimitMax,
	}

	// nil interface values keep the middlewares in their disabled path
	var (
		idempotencyStore pkgredis.IdempotencyStore
		rateLimiter      pkgredis.RateLimiter
		redisPinger      db.Pinger
	)
	if redisStore != nil {
		idempotencyStore = redisStore
		rateLimiter = redisStore
		redisPinger = redisStore
	}

	// The key is optional so plain clients can still check out; retries
	// without one are not deduplicated.
	checkoutIdempotency := middleware.Idempotency(idempotencyStore, middleware.IdempotencyPolicy{
		TTL: middleware.CheckoutIdempotencyTTL,
	}, logg)
	cancelIdempotency := middleware.Idempotency(idempotencyStore, middleware.IdempotencyPolicy{
		TTL: middleware.DefaultIdempotencyTTL,
	}, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPinger, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
			r.Post("/items", cartcontrollers.AddLine(cartService, logg))
			r.Patch("/items/{lineId}", cartcontrollers.SetLineQuantity(cartService, logg))
			r.Delete("/items/{lineId}", cartcontrollers.RemoveLine(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(
				middleware.UserRateLimit(checkoutLimit, rateLimiter, logg),
				checkoutIdempotency,
			).Post("/", ordercontrollers.Checkout(checkoutService, logg))
			r.Get("/", ordercontrollers.List(ordersSvc, bounds, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersSvc, logg))
			r.With(cancelIdempotency).Put("/{orderId}/cancel", ordercontrollers.Cancel(ordersSvc, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Put("/{orderId}/status", ordercontrollers.UpdateStatus(ordersSvc, cfg.Orders.StrictStatusTransitions, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
			r.Get("/orders", ordercontrollers.AdminList(ordersSvc, bounds, logg))
		})
	})

	return r
}
