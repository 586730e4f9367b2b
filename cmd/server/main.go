package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/laptora/checkout-service/internal/application/commands"
	"github.com/laptora/checkout-service/internal/application/use_cases"
	"github.com/laptora/checkout-service/internal/config"
	"github.com/laptora/checkout-service/internal/infrastructure/gateway"
	"github.com/laptora/checkout-service/internal/infrastructure/http/server"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
	"github.com/laptora/checkout-service/internal/infrastructure/persistence/memory"
	"github.com/laptora/checkout-service/internal/infrastructure/persistence/postgres"
	"github.com/laptora/checkout-service/internal/infrastructure/persistence/redis"
	"github.com/laptora/checkout-service/internal/infrastructure/scheduler"
	"github.com/laptora/checkout-service/internal/pkg/clock"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Checkout Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database, log); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisConn, redisErr := redis.NewConnection(cfg.Redis)
	if redisErr != nil {
		log.Fatal("Failed to connect to Redis", "error", redisErr)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	sessionStore := memory.NewSessionStore(clock.NewRealClock())
	markerStore := redis.NewMarkerStore(redisConn, log, cfg.Checkout.MarkerTTL())
	journalRepo := postgres.NewJournalRepository(db)

	gatewayTimeout := cfg.Gateway.Timeout()
	orderClient := gateway.NewOrderClient(cfg.Gateway.OrderBaseURL, gatewayTimeout)
	paymentClient := gateway.NewPaymentClient(cfg.Gateway.PaymentBaseURL, gatewayTimeout)
	cartClient := gateway.NewCartClient(cfg.Gateway.CartBaseURL, gatewayTimeout)

	submitHandler := commands.NewSubmitOrderHandler(orderClient, journalRepo, log, gatewayTimeout)
	redirectUC := use_cases.NewPaymentRedirectUseCase(
		sessionStore,
		cartClient,
		markerStore,
		paymentClient,
		submitHandler,
		log,
		gatewayTimeout,
	)
	checkoutUC := use_cases.NewCheckoutUseCase(sessionStore, cartClient, submitHandler, redirectUC, log)

	janitor := scheduler.NewSessionJanitor(
		sessionStore,
		log,
		cfg.Checkout.SessionTTL(),
		cfg.Checkout.JanitorInterval(),
	)

	httpServer := server.NewServer(cfg, db.GetDB(), redisConn, checkoutUC, journalRepo, log)
	metricsServer := monitoring.NewMetricsServer(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		janitor.Start(groupCtx)
		return nil
	})

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error("Metrics server shutdown error", "error", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatal("Server failed", "error", err)
	}

	log.Info("Server stopped")
}
