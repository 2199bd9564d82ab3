// Command cron-worker runs scheduled maintenance such as outbox retention.
// Replicas share a redis lock so each cycle runs once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/cron"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/metrics"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/migrate"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/redis"
)

const serviceKind = "cron-worker"

func main() {
	bootLog := logger.New(logger.Options{ServiceName: serviceKind})
	if err := godotenv.Load(); err != nil {
		bootLog.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = serviceKind

	logg := logger.New(logger.Options{
		ServiceName: serviceKind,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
		"lock_ttl": cfg.Cron.LockTTL.String(),
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shut down")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return multierr.Combine(fmt.Errorf("bootstrap redis: %w", err), dbClient.Close())
	}
	defer func() {
		multierr.AppendInto(&err, redisClient.Close())
		multierr.AppendInto(&err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.LockName), cfg.Cron.LockTTL)
	if err != nil {
		return err
	}
	retention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:      logg,
		Repository:  outbox.NewRepository(dbClient.DB()),
		Retention:   time.Duration(cfg.Outbox.RetentionDays) * 24 * time.Hour,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		return err
	}

	registry, err := cron.NewRegistry(retention)
	if err != nil {
		return err
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:       logg,
		Registry:     registry,
		Lock:         lock,
		Metrics:      metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:     cfg.Cron.Interval,
		CycleTimeout: lock.TTL(),
	})
	if err != nil {
		return err
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
