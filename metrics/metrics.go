package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dashboard instrumentation. Registered on the default registry and exposed
// by the server at /metrics.
var (
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_render_duration_seconds",
			Help:    "Time spent building and rasterizing a chart artifact",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"view", "mode"},
	)

	RenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_render_errors_total",
			Help: "Chart renders that returned an error",
		},
		[]string{"view", "mode"},
	)

	FilteredRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marquee_filtered_rows",
			Help:    "Rows remaining after the filter step",
			Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000},
		},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_dataset_rows",
			Help: "Rows in the currently loaded dataset",
		},
	)

	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_dataset_loads_total",
			Help: "Dataset load and reload attempts by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveRender records one render attempt.
func ObserveRender(view, mode string, start time.Time, err error) {
	RenderDuration.WithLabelValues(view, mode).Observe(time.Since(start).Seconds())
	if err != nil {
		RenderErrors.WithLabelValues(view, mode).Inc()
	}
}

// ObserveLoad records a dataset load outcome and, on success, its size.
func ObserveLoad(rows int, err error) {
	if err != nil {
		DatasetLoads.WithLabelValues("error").Inc()
		return
	}
	DatasetLoads.WithLabelValues("ok").Inc()
	DatasetRows.Set(float64(rows))
}

// ObserveHTTP records a finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
