package observability

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus series exposed on /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	SurveysCompleted   *prometheus.CounterVec
	RewardsCredited    prometheus.Counter
	WithdrawalsTotal   *prometheus.CounterVec
	WithdrawalsAmount  *prometheus.CounterVec
	ChatConnections    prometheus.Gauge
	AuthorizationDenys *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_market_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "survey_market_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	surveys := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_market_surveys_completed_total",
		Help: "Completed surveys by survey id.",
	}, []string{"survey"})
	rewards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "survey_market_rewards_credited_kes_total",
		Help: "Net survey rewards credited to balances, in KES.",
	})
	withdrawals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_market_withdrawals_total",
		Help: "Withdrawal requests by lifecycle status.",
	}, []string{"status"})
	withdrawalsAmount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_market_withdrawals_kes_total",
		Help: "Withdrawal amounts by lifecycle status, in KES.",
	}, []string{"status"})
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "survey_market_staff_chat_connections",
		Help: "Open staff chat websocket connections.",
	})
	denies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_market_authorization_denied_total",
		Help: "Requests refused by access control, by capability.",
	}, []string{"capability"})
	registry.MustRegister(requests, duration, surveys, rewards, withdrawals, withdrawalsAmount, connections, denies)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:      requests,
		requestDuration:    duration,
		SurveysCompleted:   surveys,
		RewardsCredited:    rewards,
		WithdrawalsTotal:   withdrawals,
		WithdrawalsAmount:  withdrawalsAmount,
		ChatConnections:    connections,
		AuthorizationDenys: denies,
	}
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Middleware records count and latency for every request, keyed by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps websocket upgrades working behind the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
