package scheduler

import (
	"context"
	"time"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/infrastructure/monitoring"
	"github.com/laptora/checkout-service/internal/pkg/logger"
)

// SessionJanitor periodically drops sessions that have been idle
// longer than the configured TTL. Sessions live in memory only, so
// without the sweep an abandoned checkout would linger until restart.
type SessionJanitor struct {
	sessions ports.SessionRepository
	logger   *logger.Logger
	maxIdle  time.Duration
	interval time.Duration
	stopChan chan struct{}
}

func NewSessionJanitor(
	sessions ports.SessionRepository,
	logger *logger.Logger,
	maxIdle time.Duration,
	interval time.Duration,
) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		logger:   logger,
		maxIdle:  maxIdle,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (j *SessionJanitor) Start(ctx context.Context) {
	j.logger.Info("Starting session janitor", "max_idle", j.maxIdle.String(), "interval", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Session janitor stopped")
			return
		case <-j.stopChan:
			j.logger.Info("Session janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) Stop() {
	close(j.stopChan)
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	removed, err := j.sessions.DeleteIdle(ctx, j.maxIdle)
	if err != nil {
		j.logger.Error("Session sweep failed", "error", err.Error())
		return
	}

	if removed > 0 {
		monitoring.RecordSessionsExpired(removed)
		j.logger.Info("Expired idle sessions", "count", removed)
	}
}
