// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "effimappro_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "effimappro_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2500},
	}, []string{"method", "route"})
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "effimappro_mutations_total",
		Help: "Entity mutations by entity, operation and result",
	}, []string{"entity", "op", "result"})
	ActivityWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "effimappro_activity_write_failures_total",
		Help: "Activity log writes that failed after a successful mutation",
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "effimappro_active_sessions",
		Help: "Signed-in sessions holding application state",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "effimappro_geocode_requests_total",
		Help: "Total Nominatim search requests",
	})
	GeocodeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "effimappro_geocode_fail_total",
		Help: "Total Nominatim failures",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "effimappro_geocode_duration_ms",
		Help:    "Nominatim call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "effimappro_geocode_cache_hits_total",
		Help: "Total geocode cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "effimappro_geocode_cache_misses_total",
		Help: "Total geocode cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(ActivityWriteFailuresTotal)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// ObserveMutation counts one entity mutation
func ObserveMutation(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MutationsTotal.WithLabelValues(entity, op, result).Inc()
}

// Middleware records request counts and latency per matched route
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t0 := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		RequestDurationMs.WithLabelValues(c.Method(), route).Observe(float64(time.Since(t0).Milliseconds()))
		return err
	}
}
