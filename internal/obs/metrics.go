package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal       prometheus.Counter
	CacheHitsTotal      prometheus.Counter
	RateLimitDropsTotal prometheus.Counter
	ProviderErrors      *prometheus.CounterVec
	SearchDuration      prometheus.Histogram
	Registry            *prometheus.Registry
}

// NewMetrics creates and registers the service's collectors on p.
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_searches_total",
			Help: "Total number of comprehensive searches",
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_cache_hits_total",
			Help: "Comprehensive searches served from cache",
		}),
		RateLimitDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_ratelimit_drops_total",
			Help: "Requests dropped due to rate limiting",
		}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_provider_errors_total",
			Help: "Errors returned by each travel data provider",
		}, []string{"provider"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_search_duration_seconds",
			Help:    "End-to-end comprehensive search latency",
			Buckets: prometheus.DefBuckets,
		}),
		Registry: p,
	}

	p.MustRegister(
		m.SearchesTotal,
		m.CacheHitsTotal,
		m.RateLimitDropsTotal,
		m.ProviderErrors,
		m.SearchDuration,
	)

	return m
}

func (m *Metrics) IncSearches()       { m.SearchesTotal.Inc() }
func (m *Metrics) IncCacheHits()      { m.CacheHitsTotal.Inc() }
func (m *Metrics) IncRateLimitDrops() { m.RateLimitDropsTotal.Inc() }

func (m *Metrics) IncProviderFailure(provider string) {
	m.ProviderErrors.WithLabelValues(provider).Inc()
}

func (m *Metrics) ObserveSearchDuration(seconds float64) {
	m.SearchDuration.Observe(seconds)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
