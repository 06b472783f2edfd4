package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics carries the HTTP request metrics plus pipeline-level
// observations for the extraction flow.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	extractionsTotal         *prometheus.CounterVec
	extractionDuration       *prometheus.HistogramVec
	translationFallbackTotal *prometheus.CounterVec
	formsSavedTotal          *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwx",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hwx",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hwx",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwx",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total pipeline runs by outcome and failing stage.",
		},
		[]string{"service", "outcome", "stage"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hwx",
			Subsystem: "pipeline",
			Name:      "extraction_duration_seconds",
			Help:      "Pipeline run duration in seconds, model calls included.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"service", "outcome"},
	)
	translationFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwx",
			Subsystem: "pipeline",
			Name:      "translation_fallback_total",
			Help:      "Total runs that degraded to untranslated text.",
		},
		[]string{"service"},
	)
	formsSavedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hwx",
			Subsystem: "pipeline",
			Name:      "forms_saved_total",
			Help:      "Total extracted forms persisted to the store.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		extractionsTotal,
		extractionDuration,
		translationFallbackTotal,
		formsSavedTotal,
	)

	return &ServerMetrics{
		registry:                 registry,
		requestTotal:             requestTotal,
		requestDuration:          requestDuration,
		requestInFlight:          requestInFlight,
		extractionsTotal:         extractionsTotal,
		extractionDuration:       extractionDuration,
		translationFallbackTotal: translationFallbackTotal,
		formsSavedTotal:          formsSavedTotal,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses id-bearing paths to keep label cardinality bounded.
func normalizePath(path string) string {
	switch {
	case path == "/forms/export":
		return path
	case strings.HasPrefix(path, "/forms/"):
		return "/forms/{form_id}"
	default:
		return path
	}
}

// PipelineRecorder adapts ServerMetrics to the orchestrator's observer
// contract.
type PipelineRecorder struct {
	service string
	metrics *ServerMetrics
}

func NewPipelineRecorder(service string, metrics *ServerMetrics) *PipelineRecorder {
	return &PipelineRecorder{service: service, metrics: metrics}
}

func (r *PipelineRecorder) ObserveExtraction(outcome string, stage string, duration time.Duration) {
	if stage == "" {
		stage = "none"
	}
	r.metrics.extractionsTotal.WithLabelValues(r.service, outcome, stage).Inc()
	r.metrics.extractionDuration.WithLabelValues(r.service, outcome).Observe(duration.Seconds())
}

func (r *PipelineRecorder) ObserveTranslationFallback() {
	r.metrics.translationFallbackTotal.WithLabelValues(r.service).Inc()
}

func (r *PipelineRecorder) ObserveFormSaved() {
	r.metrics.formsSavedTotal.WithLabelValues(r.service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
