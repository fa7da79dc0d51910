// Package metrics exposes prometheus counters for backend traffic,
// the query cache and state mutations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements network.Recorder and records state and reload events.
type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	deduplicated    *prometheus.CounterVec
	stateMutations  *prometheus.CounterVec
	reloads         *prometheus.CounterVec
}

// NewCollector builds a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_backend_requests_total",
			Help: "Backend requests by endpoint and HTTP status (0 = transport error).",
		}, []string{"endpoint", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curator_backend_request_seconds",
			Help:    "Backend request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_query_cache_hits_total",
			Help: "Query cache hits by endpoint.",
		}, []string{"endpoint"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_query_cache_misses_total",
			Help: "Query cache misses by endpoint.",
		}, []string{"endpoint"}),
		deduplicated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_query_deduplicated_total",
			Help: "Queries that shared an in-flight backend request.",
		}, []string{"endpoint"}),
		stateMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_state_mutations_total",
			Help: "Curation state mutations by store and outcome.",
		}, []string{"store", "outcome"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_dashboard_reloads_total",
			Help: "Dashboard reloads by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.cacheHits,
		c.cacheMisses,
		c.deduplicated,
		c.stateMutations,
		c.reloads,
	)

	return c
}

func (c *Collector) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	c.backendRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.backendLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (c *Collector) CacheHit(endpoint string)     { c.cacheHits.WithLabelValues(endpoint).Inc() }
func (c *Collector) CacheMiss(endpoint string)    { c.cacheMisses.WithLabelValues(endpoint).Inc() }
func (c *Collector) Deduplicated(endpoint string) { c.deduplicated.WithLabelValues(endpoint).Inc() }

// StateMutation records one store mutation; err == nil counts as "ok".
func (c *Collector) StateMutation(store string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.stateMutations.WithLabelValues(store, outcome).Inc()
}

// Reload records one dashboard reload.
func (c *Collector) Reload(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.reloads.WithLabelValues(outcome).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
