package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "margdarshak",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "margdarshak",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Crowding monitor metrics
	MonitorTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "monitor",
		Name:      "ticks_total",
		Help:      "Total parking simulation ticks applied",
	})

	AnalysisCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "monitor",
		Name:      "analysis_calls_total",
		Help:      "Total crowding analysis calls completed",
	})

	AnalysisErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "monitor",
		Name:      "analysis_errors_total",
		Help:      "Total crowding analysis calls that failed",
	})

	// Chat metrics
	ChatTurns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Total chat turns started",
	})

	ChatFragments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "chat",
		Name:      "fragments_total",
		Help:      "Total chat stream fragments delivered",
	})

	// Routing metrics
	RouteLookups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "routing",
		Name:      "lookups_total",
		Help:      "Total route geometry lookups",
	})

	RouteLookupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "routing",
		Name:      "lookup_errors_total",
		Help:      "Total route geometry lookups that failed",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "margdarshak",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket map sessions",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "margdarshak",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
