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
	"go.uber.org/multierr"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/controllers"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/middleware"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/api/routes"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cart"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/checkout"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/coupon"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/cron"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/internal/stores"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/config"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/db"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/instance"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/metrics"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/migrate"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/redis"
	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/storage"
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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]controllers.Pinger{}
	var closers []func() error

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		readiness["redis"] = redisClient
	}

	var kv storage.KV
	switch {
	case cfg.Storage.Driver == config.StorageDriverRedis:
		kv = storage.NewRedis(redisClient, 0)
	case cfg.Storage.UsesSQL():
		dbClient, dbErr := db.New(ctx, cfg.DB, logg)
		if dbErr != nil {
			return multierr.Append(dbErr, closeAll(closers))
		}
		closers = append(closers, dbClient.Close)
		readiness["db"] = dbClient
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return multierr.Append(err, closeAll(closers))
		}
		kv = storage.NewSQL(dbClient.DB())
	default:
		kv = storage.NewMemory()
	}
	kv = storage.WithPrefix(kv, cfg.Storage.KeyPrefix)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)
	pricingMetrics := metrics.NewPricingMetrics(reg)
	cronMetrics := metrics.NewCronJobMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	carts := cart.NewRegistry(kv, cart.Options{
		MaxQuantity: cfg.Pricing.MaxQuantity,
		Logger:      logg,
		Metrics:     cartMetrics,
	}, cart.RegistryOptions{
		MaxSessions: cfg.Sessions.MaxCached,
		SessionTTL:  cfg.Sessions.IdleTTL,
	})
	catalog := coupon.NewCatalog(couponSource(cfg), logg, pricingMetrics)
	validator := coupon.NewValidator(nil)

	checkoutService, err := checkout.NewService(checkout.Deps{
		Carts:      carts,
		Catalog:    catalog,
		Selections: coupon.NewSelections(validator, coupon.SelectionsOptions{
			MaxSessions: cfg.Sessions.MaxCached,
			SessionTTL:  cfg.Sessions.IdleTTL,
		}),
		Stores:     storeSource(cfg),
		Calculator: coupon.NewCalculator(cfg.Pricing.RoundingUnit),
		Validator:  validator,
		Logger:     logg,
		Metrics:    pricingMetrics,
	})
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	cronService, err := newCronService(cfg, logg, redisClient, catalog, cronMetrics)
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	var idempotencyStore middleware.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Driver,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, carts, checkoutService, idempotencyStore, readiness, httpMetrics, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cronDone := make(chan error, 1)
	go func() {
		cronDone <- cronService.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		stop()
	}

	logg.Info(ctx, "api shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = multierr.Append(err, server.Shutdown(shutdownCtx))
	if cronErr := <-cronDone; cronErr != nil && !errors.Is(cronErr, context.Canceled) {
		err = multierr.Append(err, cronErr)
	}
	err = multierr.Append(err, carts.Flush(shutdownCtx))
	return multierr.Append(err, closeAll(closers))
}

// couponSource prefers the backend API, then a seed file, then an empty catalog.
func couponSource(cfg *config.Config) coupon.Source {
	switch {
	case cfg.Backend.BaseURL != "":
		return coupon.NewHTTPSource(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	case cfg.Coupons.SeedFile != "":
		return coupon.FileSource{Path: cfg.Coupons.SeedFile}
	default:
		return coupon.StaticSource{}
	}
}

func storeSource(cfg *config.Config) stores.Source {
	if cfg.Backend.BaseURL != "" {
		return stores.NewHTTPSource(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	}
	return stores.StaticSource{DefaultDeliveryFee: cfg.Stores.DefaultDeliveryFee}
}

func newCronService(cfg *config.Config, logg *logger.Logger, redisClient *redis.Client, catalog *coupon.Catalog, m *metrics.CronJobMetrics) (*cron.Service, error) {
	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cfg.Coupons.LockKey), cfg.Coupons.LockTTL)
		if err != nil {
			return nil, err
		}
		lock = redisLock
	}

	registry := cron.NewRegistry()
	if err := registry.Register(cron.NewCatalogRefreshJob(catalog)); err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  m,
		Interval: cfg.Coupons.RefreshInterval,
	})
}

func closeAll(closers []func() error) error {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	return err
}
