package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// Auth & sessions

	LoginAttempts     *prometheus.CounterVec
	RegistrationsTotal prometheus.Counter
	RateLimitedTotal  *prometheus.CounterVec
	SessionsIssued    prometheus.Counter
	SessionsDestroyed prometheus.Counter
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wavedex",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// Sane initial defaults
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wavedex",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wavedex",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),

		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "auth",
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome.",
			},
			[]string{"result"}, // result=ok|invalid
		),
		RegistrationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "auth",
				Name:      "registrations_total",
				Help:      "Accounts created.",
			},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "auth",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by a rate-limit window.",
			},
			[]string{"scope"}, // scope=login|register|api
		),
		SessionsIssued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "sessions",
				Name:      "issued_total",
				Help:      "Sessions created at login/registration.",
			},
		),
		SessionsDestroyed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "wavedex",
				Subsystem: "sessions",
				Name:      "destroyed_total",
				Help:      "Sessions removed at logout.",
			},
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.LoginAttempts, p.RegistrationsTotal, p.RateLimitedTotal,
		p.SessionsIssued, p.SessionsDestroyed,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
