// Package httpadapter exposes the extraction pipeline, form CRUD and agent
// operations over JSON HTTP. All responses, errors included, are JSON.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/handwriting-extraction/internal/config"
	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
	"github.com/kirillkom/handwriting-extraction/internal/export"
	"github.com/kirillkom/handwriting-extraction/internal/observability/metrics"
)

type Router struct {
	cfg       config.Config
	extractor ports.UploadExtractor
	readiness ports.ReadinessReporter
	fields    ports.FieldAgent
	repo      ports.FormRepository
	exporter  *export.Service
	metrics   *metrics.ServerMetrics
}

func NewRouter(
	cfg config.Config,
	extractor ports.UploadExtractor,
	readiness ports.ReadinessReporter,
	fields ports.FieldAgent,
	repo ports.FormRepository,
	exporter *export.Service,
	serverMetrics *metrics.ServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		extractor: extractor,
		readiness: readiness,
		fields:    fields,
		repo:      repo,
		exporter:  exporter,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/health", rt.health)
	mux.Handle("/upload", backpressureMiddleware(
		http.HandlerFunc(rt.upload), rt.cfg.MaxInFlightUploads, 100*time.Millisecond))
	mux.HandleFunc("/forms", rt.formsCollection)
	mux.HandleFunc("/forms/export", rt.exportForms)
	mux.HandleFunc("/forms/", rt.formsItem)
	mux.HandleFunc("/extract-form-fields", rt.extractFormFields)
	mux.HandleFunc("/validate-form", rt.validateForm)
	mux.HandleFunc("/classify-form", rt.classifyForm)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = requestLogMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	return handler
}

func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Handwriting Extraction API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /upload":              "upload handwritten image for extraction",
			"GET /health":               "health check",
			"GET /forms":                "list form data",
			"POST /forms":               "create form data",
			"GET /forms/{id}":           "get form data by id",
			"PUT /forms/{id}":           "update form data",
			"DELETE /forms/{id}":        "delete form data",
			"GET /forms/export":         "export forms as XLSX",
			"POST /extract-form-fields": "structure extracted text into fields",
			"POST /validate-form":       "validate extracted fields",
			"POST /classify-form":       "classify the form type",
		},
	})
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, rt.readiness.Status())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
