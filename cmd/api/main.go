package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowora/glowora-backend/api/routes"
	"github.com/glowora/glowora-backend/internal/affiliate"
	"github.com/glowora/glowora-backend/internal/invoices"
	"github.com/glowora/glowora-backend/internal/notifications"
	"github.com/glowora/glowora-backend/internal/orders"
	"github.com/glowora/glowora-backend/internal/points"
	"github.com/glowora/glowora-backend/internal/settlement"
	"github.com/glowora/glowora-backend/pkg/config"
	"github.com/glowora/glowora-backend/pkg/db"
	"github.com/glowora/glowora-backend/pkg/logger"
	"github.com/glowora/glowora-backend/pkg/metrics"
	"github.com/glowora/glowora-backend/pkg/migrate"
	"github.com/glowora/glowora-backend/pkg/redis"
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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	ordersRepo := orders.NewRepository(dbClient.DB())
	affRepo := affiliate.NewRepository(dbClient.DB())
	pointsRepo := points.NewRepository(dbClient.DB())
	invoiceRepo := invoices.NewRepository(dbClient.DB())

	affService, err := affiliate.NewService(affRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create affiliate service", err)
		os.Exit(1)
	}
	settlementService, err := settlement.NewService(affRepo, pointsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}
	invoiceService, err := invoices.NewService(invoiceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	dispatcher := notifications.NewDispatcher(redisClient, cfg.Orders.NotificationChannel, logg)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:       ordersRepo,
		Affiliates: affService,
		AffRepo:    affRepo,
		Points:     pointsRepo,
		Settlement: settlementService,
		Invoices:   invoiceService,
		Tx:         dbClient,
		Notifier:   dispatcher,
		Logger:     logg,
		Metrics:    orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisPinger:     redisClient,
		IdemStore:       redisClient,
		OrdersRepo:      ordersRepo,
		OrdersSvc:       ordersService,
		MetricsGatherer: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
