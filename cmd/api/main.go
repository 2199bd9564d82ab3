package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ghassen-kharrat/barbachli-sub000/api/routes"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/checkout"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/products"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/users"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/metrics"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/migrate"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conn := dbClient.DB()
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	inventory := products.NewInventory(productRepo)
	outboxSvc := outbox.NewService(outbox.NewRepository(conn), logg)

	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:        dbClient,
		Carts:     cartRepo,
		Orders:    ordersRepo,
		Inventory: inventory,
		Outbox:    outboxSvc,
		Metrics:   metrics.NewCheckoutMetrics(registry),
		Logger:    logg,
		Timeout:   cfg.Checkout.Timeout,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repository: ordersRepo,
		Tx:         dbClient,
		Outbox:     outboxSvc,
		Inventory:  inventory,
		Products:   productRepo,
		Customers:  users.NewResolver(users.NewRepository(conn), logg),
		Logger:     logg,
		Bounds: pagination.Bounds{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
		RestockOnCancel: cfg.Orders.RestockOnCancel,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, checkoutService, cartService, ordersService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "api server shutdown failed", err)
		}
	}
}
