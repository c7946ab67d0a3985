package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the advisor.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	FetchDuration  *prometheus.HistogramVec
	BatchSource    *prometheus.CounterVec
	CacheResults   *prometheus.CounterVec
	RankDuration   *prometheus.HistogramVec
	RankedAssets   *prometheus.GaugeVec
	NarrativeCalls *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates a registry with every advisor metric registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_fetch_duration_seconds",
				Help:    "Duration of market data fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"fetcher", "result"},
		),

		BatchSource: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_market_batches_total",
				Help: "Market batches served by source (coingecko, cache, fallback)",
			},
			[]string{"source"},
		),

		CacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_cache_lookups_total",
				Help: "Snapshot cache lookups by result",
			},
			[]string{"result"},
		),

		RankDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_rank_duration_seconds",
				Help:    "Duration of a ranking run in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"strategy"},
		),

		RankedAssets: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "advisor_ranked_assets",
				Help: "Number of recommendations in the latest ranking per strategy",
			},
			[]string{"strategy"},
		),

		NarrativeCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_narrative_calls_total",
				Help: "Narrative generations by generator and result",
			},
			[]string{"generator", "result"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	r.reg.MustRegister(
		r.FetchDuration,
		r.BatchSource,
		r.CacheResults,
		r.RankDuration,
		r.RankedAssets,
		r.NarrativeCalls,
		r.HTTPRequests,
		r.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer returns the underlying registry for inspection in tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *Registry) ObserveFetch(fetcher string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.FetchDuration.WithLabelValues(fetcher, result(err)).Observe(d.Seconds())
}

func (r *Registry) ObserveBatch(source string) {
	if r == nil {
		return
	}
	r.BatchSource.WithLabelValues(source).Inc()
}

func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	label := "miss"
	if hit {
		label = "hit"
	}
	r.CacheResults.WithLabelValues(label).Inc()
}

func (r *Registry) ObserveRank(strategy string, n int, d time.Duration) {
	if r == nil {
		return
	}
	r.RankDuration.WithLabelValues(strategy).Observe(d.Seconds())
	r.RankedAssets.WithLabelValues(strategy).Set(float64(n))
}

func (r *Registry) ObserveNarrative(generator string, err error) {
	if r == nil {
		return
	}
	r.NarrativeCalls.WithLabelValues(generator, result(err)).Inc()
}

func (r *Registry) ObserveHTTP(route string, code int, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
