package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	SessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_started_total",
			Help: "Total number of checkout sessions started",
		},
	)

	StepTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_step_transitions_total",
			Help: "Total number of checkout step transitions",
		},
		[]string{"direction", "step"},
	)

	SubmissionAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_submission_attempts_total",
			Help: "Total number of order submission attempts",
		},
	)

	SubmissionSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_submission_success_total",
			Help: "Total number of successful order submissions",
		},
	)

	SubmissionFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_submission_failure_total",
			Help: "Total number of failed order submissions",
		},
		[]string{"reason"},
	)

	RedirectInitiatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_redirect_initiated_total",
			Help: "Total number of payment redirects initiated",
		},
	)

	RedirectResumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_redirect_resumed_total",
			Help: "Total number of post-payment submissions resumed on focus",
		},
	)

	RedirectFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_redirect_failure_total",
			Help: "Total number of failed payment redirect initiations",
		},
		[]string{"reason"},
	)

	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_expired_total",
			Help: "Total number of idle checkout sessions removed by the janitor",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func RecordSessionStarted() {
	SessionsStartedTotal.Inc()
}

func RecordStepTransition(direction, step string) {
	StepTransitionsTotal.WithLabelValues(direction, step).Inc()
}

func RecordSubmissionAttempt() {
	SubmissionAttemptsTotal.Inc()
}

func RecordSubmissionSuccess() {
	SubmissionSuccessTotal.Inc()
}

func RecordSubmissionFailure(reason string) {
	SubmissionFailureTotal.WithLabelValues(reason).Inc()
}

func RecordRedirectInitiated() {
	RedirectInitiatedTotal.Inc()
}

func RecordRedirectResumed() {
	RedirectResumedTotal.Inc()
}

func RecordRedirectFailure(reason string) {
	RedirectFailureTotal.WithLabelValues(reason).Inc()
}

func RecordSessionsExpired(count int) {
	SessionsExpiredTotal.Add(float64(count))
}
