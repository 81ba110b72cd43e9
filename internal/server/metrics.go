package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
)

// Metrics holds the Prometheus collectors exposed on /metrics. Each Server
// gets its own registry so several can coexist in one process.
type Metrics struct {
	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	totalPower    prometheus.Gauge
	maxPower      prometheus.Gauge
	devices       prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wattwatch_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wattwatch_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		totalPower: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wattwatch_total_power_watts",
			Help: "Combined power of all tracked devices.",
		}),
		maxPower: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wattwatch_max_power_watts",
			Help: "Contracted maximum power of the site.",
		}),
		devices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wattwatch_devices",
			Help: "Number of tracked devices.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.duration,
		m.totalPower,
		m.maxPower,
		m.devices,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe refreshes the household gauges from a snapshot.
func (m *Metrics) Observe(data household.AppData) {
	m.totalPower.Set(float64(analysis.TotalPower(data.Devices)))
	m.maxPower.Set(float64(data.Settings.MaxPower.Watts()))
	m.devices.Set(float64(len(data.Devices)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and durations labelled by route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
