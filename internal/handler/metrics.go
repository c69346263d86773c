package handler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/middleware"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/service"
	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/youtube"
)

// Metrics holds all Prometheus collectors for the explorer.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	PipelineRuns     *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	RowsReturned     prometheus.Histogram
	UpstreamCalls    *prometheus.CounterVec
}{}

var metricsOnce sync.Once

// InitMetrics registers all Prometheus metrics. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		Metrics.RequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytexplorer_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by endpoint and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method", "status"},
		)

		Metrics.RequestsInFlight = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ytexplorer_requests_in_flight",
				Help: "Number of HTTP requests currently being served.",
			},
		)

		Metrics.PipelineRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytexplorer_pipeline_runs_total",
				Help: "Explorer pipeline runs, by outcome.",
			},
			[]string{"outcome"},
		)

		Metrics.StageDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytexplorer_pipeline_stage_duration_seconds",
				Help:    "Duration of each pipeline stage (fetch, shape, present).",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		)

		Metrics.RowsReturned = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ytexplorer_pipeline_rows",
				Help:    "Rows in the table of successful runs.",
				Buckets: []float64{0, 5, 10, 20, 30, 40, 50},
			},
		)

		Metrics.UpstreamCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytexplorer_youtube_calls_total",
				Help: "YouTube Data API calls, by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		)

		prometheus.MustRegister(
			Metrics.RequestDuration,
			Metrics.RequestsInFlight,
			Metrics.PipelineRuns,
			Metrics.StageDuration,
			Metrics.RowsReturned,
			Metrics.UpstreamCalls,
		)
	})
}

// PipelineObserver feeds explorer stage timings and outcomes into Prometheus.
type PipelineObserver struct{}

func (PipelineObserver) ObserveStage(stage string, d time.Duration) {
	if Metrics.StageDuration == nil {
		return
	}
	Metrics.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (PipelineObserver) ObserveRun(ok bool, rows int) {
	if Metrics.PipelineRuns == nil {
		return
	}
	if !ok {
		Metrics.PipelineRuns.WithLabelValues("failure").Inc()
		return
	}
	Metrics.PipelineRuns.WithLabelValues("success").Inc()
	Metrics.RowsReturned.Observe(float64(rows))
}

// InstrumentSource counts Data API calls made through src.
func InstrumentSource(src service.VideoSource) service.VideoSource {
	return instrumentedSource{src: src}
}

type instrumentedSource struct {
	src service.VideoSource
}

func (s instrumentedSource) Search(ctx context.Context, apiKey, query string, maxResults int) ([]youtube.SearchItem, error) {
	items, err := s.src.Search(ctx, apiKey, query, maxResults)
	observeCall("search", err)
	return items, err
}

func (s instrumentedSource) Videos(ctx context.Context, apiKey string, ids []string) ([]youtube.VideoItem, error) {
	items, err := s.src.Videos(ctx, apiKey, ids)
	observeCall("videos", err)
	return items, err
}

func observeCall(endpoint string, err error) {
	if Metrics.UpstreamCalls == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Metrics.UpstreamCalls.WithLabelValues(endpoint, outcome).Inc()
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" || Metrics.RequestDuration == nil {
			return c.Next()
		}

		// Copy path and method into owned strings before c.Next(); Fiber
		// returns slices backed by the fasthttp buffer which can be reused.
		endpoint := middleware.RoutePath(string([]byte(c.Path())))
		method := string([]byte(c.Method()))

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
