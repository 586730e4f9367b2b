package handlers

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laptora/checkout-service/internal/infrastructure/http/response"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

type HealthHandler struct {
	db        *sql.DB
	redis     *redis.Client
	log       *logger.Logger
	startTime time.Time
}

func NewHealthHandler(db *sql.DB, redis *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redis,
		log:       log,
		startTime: time.Now().UTC(),
	}
}

type ServicesStatus struct {
	App      string `json:"app"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type HealthData struct {
	ServicesStatus ServicesStatus `json:"services_status"`
	Uptime         string         `json:"uptime"`
	Goroutines     int            `json:"goroutines"`
}

func (h *HealthHandler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "UP"
		if err := h.db.PingContext(r.Context()); err != nil {
			dbStatus = "DOWN"
		}

		redisStatus := "UP"
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			redisStatus = "DOWN"
		}

		data := HealthData{
			ServicesStatus: ServicesStatus{
				App:      "UP",
				Database: dbStatus,
				Redis:    redisStatus,
			},
			Uptime:     time.Since(h.startTime).String(),
			Goroutines: runtime.NumGoroutine(),
		}

		status := http.StatusOK
		if dbStatus == "DOWN" || redisStatus == "DOWN" {
			status = http.StatusServiceUnavailable
		}

		response.WriteJSON(w, status, &response.DataResponse[HealthData]{Data: data})
	}
}
