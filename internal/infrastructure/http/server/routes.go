package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laptora/checkout-service/internal/infrastructure/http/middleware"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/checkout/sessions", s.handleSessionCollection)
	mux.HandleFunc("/checkout/sessions/", s.handleSessionRoutes)
	mux.HandleFunc("/admin/submissions", s.handleAdminSubmissions)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleSessionCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.sessionHandler.HandleBegin(w, r)
}

func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/checkout/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		sessionID := parts[0]
		switch r.Method {
		case http.MethodGet:
			s.sessionHandler.HandleGet(w, r, sessionID)
		case http.MethodDelete:
			s.sessionHandler.HandleAbandon(w, r, sessionID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 && parts[0] != "" {
		sessionID, action := parts[0], parts[1]
		switch {
		case action == "advance" && r.Method == http.MethodPost:
			s.sessionHandler.HandleAdvance(w, r, sessionID)
		case action == "back" && r.Method == http.MethodPost:
			s.sessionHandler.HandleBack(w, r, sessionID)
		case action == "shipping" && r.Method == http.MethodPut:
			s.sessionHandler.HandleShipping(w, r, sessionID)
		case action == "payment" && r.Method == http.MethodPut:
			s.sessionHandler.HandlePayment(w, r, sessionID)
		case action == "confirm" && r.Method == http.MethodPost:
			s.sessionHandler.HandleConfirm(w, r, sessionID)
		case action == "resume" && r.Method == http.MethodPost:
			s.sessionHandler.HandleResume(w, r, sessionID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	http.NotFound(w, r)
}

func (s *Server) handleAdminSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.adminHandler.HandleListSubmissions(w, r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 60*time.Second, "Request timeout")
}
