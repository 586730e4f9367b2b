package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/application/use_cases"
	"github.com/laptora/checkout-service/internal/config"
	"github.com/laptora/checkout-service/internal/infrastructure/http/handlers"
	"github.com/laptora/checkout-service/internal/infrastructure/persistence/redis"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

type Server struct {
	server         *http.Server
	logger         *logger.Logger
	sessionHandler *handlers.SessionHandler
	adminHandler   *handlers.AdminHandler
	healthHandler  *handlers.HealthHandler
}

func NewServer(
	cfg *config.Config,
	db *sql.DB,
	redisConn *redis.Connection,
	checkoutUC *use_cases.CheckoutUseCase,
	journal ports.JournalRepository,
	log *logger.Logger,
) *Server {
	sessionHandler := handlers.NewSessionHandler(checkoutUC, log)
	adminHandler := handlers.NewAdminHandler(journal, log)
	healthHandler := handlers.NewHealthHandler(db, redisConn.GetClient(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:         server,
		logger:         log,
		sessionHandler: sessionHandler,
		adminHandler:   adminHandler,
		healthHandler:  healthHandler,
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
