package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    prometheus.Histogram
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	upstreamRequests   *prometheus.CounterVec
	upstreamDuration   prometheus.Histogram
	cacheEntries       *prometheus.GaugeVec
	rateLimitRemaining prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistproxy_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"status"},
		),
		requestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gistproxy_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
		),
		cacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gistproxy_cache_hits_total",
				Help: "Total number of responses served from cache",
			},
		),
		cacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gistproxy_cache_misses_total",
				Help: "Total number of requests that required an upstream fetch",
			},
		),
		upstreamRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gistproxy_upstream_requests_total",
				Help: "Total number of upstream API calls",
			},
			[]string{"status"},
		),
		upstreamDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gistproxy_upstream_duration_seconds",
				Help:    "Upstream API call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		cacheEntries: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gistproxy_cache_entries",
				Help: "Current number of cache entries by state",
			},
			[]string{"state"},
		),
		rateLimitRemaining: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gistproxy_rate_limit_remaining",
				Help: "Remaining upstream API rate limit as last observed",
			},
		),
	}
}

// RecordRequest records a served HTTP request
func (c *Collector) RecordRequest(status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordCacheHit increments the count of cache hits
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordCacheMiss increments the count of cache misses
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Inc()
}

// RecordUpstreamRequest records an upstream API call
func (c *Collector) RecordUpstreamRequest(status int, duration time.Duration) {
	c.upstreamRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.upstreamDuration.Observe(duration.Seconds())
}

// SetRateLimitRemaining sets the last observed upstream rate limit
func (c *Collector) SetRateLimitRemaining(remaining int) {
	c.rateLimitRemaining.Set(float64(remaining))
}

// SetCacheEntries sets the current cache entry gauges
func (c *Collector) SetCacheEntries(valid, expired int) {
	c.cacheEntries.WithLabelValues("valid").Set(float64(valid))
	c.cacheEntries.WithLabelValues("expired").Set(float64(expired))
}
