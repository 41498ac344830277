package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mmcifsite"

// Prometheus implements SiteHooks, CacheHooks and HTTPHooks with
// Prometheus collectors.
type Prometheus struct {
	dictionaries       *prometheus.CounterVec
	dictionaryDuration *prometheus.HistogramVec
	pages              *prometheus.CounterVec
	pageBytes          *prometheus.CounterVec
	figures            *prometheus.CounterVec
	figureDuration     *prometheus.HistogramVec
	figuresSkipped     *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	cacheBytes         *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	httpErrors         *prometheus.CounterVec
}

// NewPrometheus registers the site collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		dictionaries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionaries_total",
			Help:      "Dictionaries processed, by outcome.",
		}, []string{"dictionary", "status"}),
		dictionaryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dictionary_duration_seconds",
			Help:      "Time to generate all output for one dictionary.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"dictionary"}),
		pages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "HTML pages written.",
		}, []string{"dictionary", "content_type"}),
		pageBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_bytes_total",
			Help:      "Bytes of HTML written.",
		}, []string{"dictionary"}),
		figures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_total",
			Help:      "Neighbor figures rendered, by outcome.",
		}, []string{"dictionary", "usage", "status"}),
		figureDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "figure_render_seconds",
			Help:      "Time to render one neighbor figure.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"usage"}),
		figuresSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_skipped_total",
			Help:      "Neighbor figures not produced.",
		}, []string{"dictionary", "usage", "reason"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups, by result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_set_bytes_total",
			Help:      "Bytes written to the render cache.",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Preview server requests.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Preview server latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Preview server requests that failed while serving.",
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func usageLabel(usage string) string {
	if usage == "" {
		return "full"
	}
	return usage
}

func (p *Prometheus) OnDictionaryStart(context.Context, string) {}

func (p *Prometheus) OnDictionaryComplete(_ context.Context, dictionary string, _, _ int, d time.Duration, err error) {
	p.dictionaries.WithLabelValues(dictionary, status(err)).Inc()
	p.dictionaryDuration.WithLabelValues(dictionary).Observe(d.Seconds())
}

func (p *Prometheus) OnPageWritten(_ context.Context, dictionary, contentType string, size int) {
	p.pages.WithLabelValues(dictionary, contentType).Inc()
	p.pageBytes.WithLabelValues(dictionary).Add(float64(size))
}

func (p *Prometheus) OnFigureRendered(_ context.Context, dictionary, usage string, d time.Duration, err error) {
	p.figures.WithLabelValues(dictionary, usageLabel(usage), status(err)).Inc()
	p.figureDuration.WithLabelValues(usageLabel(usage)).Observe(d.Seconds())
}

func (p *Prometheus) OnFigureSkipped(_ context.Context, dictionary, usage, reason string) {
	p.figuresSkipped.WithLabelValues(dictionary, usageLabel(usage), reason).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, route string, _ error) {
	p.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ SiteHooks  = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
	_ HTTPHooks  = (*Prometheus)(nil)
)
