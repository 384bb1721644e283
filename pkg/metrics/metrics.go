package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 指标收集器
// 方法允许 nil 接收者，测试中不需要指标时直接传 nil
type Collector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	translationsTotal   *prometheus.CounterVec
	translateDuration   prometheus.Histogram
	reportsTotal        *prometheus.CounterVec
	moderationTotal     *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
	storeMutationsTotal *prometheus.CounterVec
}

// NewCollector 创建指标收集器，每个实例使用独立的 registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		translationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawsay_translations_total",
				Help: "Translation attempts by outcome",
			},
			[]string{"outcome"},
		),
		translateDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pawsay_translate_duration_seconds",
				Help:    "Latency of the classification and image round trip",
				Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
			},
		),
		reportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawsay_reports_total",
				Help: "Community reports filed, split by whether the post got hidden",
			},
			[]string{"hidden"},
		),
		moderationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawsay_moderation_actions_total",
				Help: "Admin moderation actions",
			},
			[]string{"action"},
		),
		notificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawsay_notifications_total",
				Help: "Notification deliveries by channel and result",
			},
			[]string{"channel", "result"},
		),
		storeMutationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawsay_store_mutations_total",
				Help: "Whole-collection writes by collection",
			},
			[]string{"collection"},
		),
	}
}

// Handler 暴露 /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层 registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveHTTP(method, endpoint, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (c *Collector) Translation(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.translationsTotal.WithLabelValues(outcome).Inc()
	c.translateDuration.Observe(d.Seconds())
}

func (c *Collector) Report(hidden bool) {
	if c == nil {
		return
	}
	label := "false"
	if hidden {
		label = "true"
	}
	c.reportsTotal.WithLabelValues(label).Inc()
}

func (c *Collector) Moderation(action string) {
	if c == nil {
		return
	}
	c.moderationTotal.WithLabelValues(action).Inc()
}

func (c *Collector) Notification(channel string, ok bool) {
	if c == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	c.notificationsTotal.WithLabelValues(channel, result).Inc()
}

func (c *Collector) StoreMutation(collection string) {
	if c == nil {
		return
	}
	c.storeMutationsTotal.WithLabelValues(collection).Inc()
}
