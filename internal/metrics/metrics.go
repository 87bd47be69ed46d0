// Package metrics exports depwatch activity as Prometheus metrics.
//
// [Metrics] implements the observability hook interfaces, so installing it
// with [Metrics.Install] makes every resolution, registry lookup, cache
// access and outbound HTTP request show up on the /metrics endpoint.
package metrics

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/observability"
)

const namespace = "depwatch"

// Metrics holds the depwatch collectors.
type Metrics struct {
	resolutions        *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	outdated           prometheus.Histogram
	lookups            *prometheus.CounterVec
	lookupDuration     *prometheus.HistogramVec
	cache              *prometheus.CounterVec
	upstream           *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Number of dependency resolutions by result code.",
		}, []string{"code"}),
		resolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time taken to resolve the outdated dependencies of a repository.",
			Buckets:   prometheus.DefBuckets,
		}),
		outdated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outdated_dependencies",
			Help:      "Number of outdated dependencies found per successful resolution.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_lookups_total",
			Help:      "Number of registry lookups by ecosystem and result code.",
		}, []string{"ecosystem", "code"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_lookup_duration_seconds",
			Help:      "Registry lookup latency (seconds).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"ecosystem"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Response cache operations by namespace and result.",
		}, []string{"namespace", "result"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound HTTP requests by host and status.",
		}, []string{"host", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound HTTP request latency (seconds).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound API requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound API request latency (seconds).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.resolutions.Describe(ch)
	m.resolutionDuration.Describe(ch)
	m.outdated.Describe(ch)
	m.lookups.Describe(ch)
	m.lookupDuration.Describe(ch)
	m.cache.Describe(ch)
	m.upstream.Describe(ch)
	m.upstreamDuration.Describe(ch)
	m.requests.Describe(ch)
	m.requestDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.resolutions.Collect(ch)
	m.resolutionDuration.Collect(ch)
	m.outdated.Collect(ch)
	m.lookups.Collect(ch)
	m.lookupDuration.Collect(ch)
	m.cache.Collect(ch)
	m.upstream.Collect(ch)
	m.upstreamDuration.Collect(ch)
	m.requests.Collect(ch)
	m.requestDuration.Collect(ch)
}

// Install registers m as the global resolve, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetResolveHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the metrics of reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Middleware records inbound request counts and latency by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) OnResolveStart(context.Context, string) {}
func (m *Metrics) OnLookupsStart(context.Context, int)    {}

func (m *Metrics) OnLookupComplete(_ context.Context, ecosystem, _ string, d time.Duration, err error) {
	m.lookups.WithLabelValues(ecosystem, codeLabel(err)).Inc()
	m.lookupDuration.WithLabelValues(ecosystem).Observe(d.Seconds())
}

func (m *Metrics) OnResolveComplete(_ context.Context, _ string, outdated int, d time.Duration, err error) {
	m.resolutions.WithLabelValues(codeLabel(err)).Inc()
	m.resolutionDuration.Observe(d.Seconds())
	if err == nil {
		m.outdated.Observe(float64(outdated))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, ns string) {
	m.cache.WithLabelValues(ns, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, ns string) {
	m.cache.WithLabelValues(ns, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, ns string, _ int) {
	m.cache.WithLabelValues(ns, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstream.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstream.WithLabelValues(host, "error").Inc()
}

// codeLabel keeps label cardinality bounded to the error code set.
func codeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.GetCode(err) != "":
		return string(errors.GetCode(err))
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "CANCELED"
	default:
		return string(errors.ErrCodeInternal)
	}
}

var (
	_ prometheus.Collector        = (*Metrics)(nil)
	_ observability.ResolveHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)
