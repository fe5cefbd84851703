// Package metrics records outgoing Food Share API calls for Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Recorder is what the API client reports to.
type Recorder interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodshare_api_requests_total",
			Help: "API calls by method, route template and status class.",
		}, []string{"method", "route", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodshare_api_transport_failures_total",
			Help: "API calls that produced no response.",
		}, []string{"method", "route"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodshare_api_request_duration_seconds",
			Help:    "API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.requests, c.failures, c.latency)
	return c
}

// ObserveRequest records one call. A zero status means no response arrived.
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
	if status == 0 {
		c.failures.WithLabelValues(method, route).Inc()
		return
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format over fasthttp.
func Handler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
