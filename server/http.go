// Package server provides the HTTP front end for the AIFR pipeline: report
// submission, the system dropdown, health, and metrics.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kepae/aifr-jsonld-example/graph"
	"github.com/kepae/aifr-jsonld-example/jsonld"
	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/report"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server wires the pipeline stages behind HTTP handlers. The knowledge base
// store is shared and read-only per request; each request takes one index
// snapshot and runs both stages against it.
type Server struct {
	store      *kb.Store
	resolver   *report.Resolver
	serializer *jsonld.Serializer
	publisher  *graph.Publisher
	metrics    *Metrics
	logger     *slog.Logger
}

// New creates a server. publisher may be built on a nil NATS connection when
// publishing is disabled; logger nil means slog.Default().
func New(store *kb.Store, resolver *report.Resolver, serializer *jsonld.Serializer, publisher *graph.Publisher, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:      store,
		resolver:   resolver,
		serializer: serializer,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handler returns the root handler with all routes registered:
//
//	POST /api/reports
//	GET  /api/systems
//	GET  /healthz
//	GET  /metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reports", s.handleSubmitReport)
	mux.HandleFunc("/api/systems", s.handleSystems)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return s.withRequestID(mux)
}

// withRequestID tags each request with an id and logs its outcome.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug("request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}

// ----------------------------------------------------------------------------
// POST /api/reports
// ----------------------------------------------------------------------------

// handleSubmitReport runs the full pipeline on a raw form payload and
// responds with the JSON-LD document.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "bad_request", "failed to read request body", nil)
		return
	}

	raw, err := report.Decode(body)
	if err != nil {
		var valErr *report.ValidationError
		if errors.As(err, &valErr) {
			s.fail(w, http.StatusUnprocessableEntity, "validation_error", "report failed validation", valErr.Violations)
		} else {
			s.fail(w, http.StatusBadRequest, "bad_request", "malformed report payload", nil)
		}
		return
	}

	// One snapshot for both stages; a concurrent reload cannot drift the
	// knowledge base between resolution and serialization.
	ix := s.store.Index()

	enriched, err := s.resolver.Resolve(raw, ix)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, "resolution_error", err.Error(), nil)
		return
	}

	doc, err := s.serializer.Serialize(enriched, ix)
	if err != nil {
		var slugErr *jsonld.UnknownSystemSlugError
		if errors.As(err, &slugErr) {
			s.fail(w, http.StatusConflict, "drift_error", err.Error(), nil)
		} else {
			s.fail(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		}
		return
	}

	if err := s.publisher.PublishReport(r.Context(), enriched.ID, doc); err != nil {
		// Publishing is best effort; the document is still returned.
		s.logger.Warn("failed to publish report document",
			slog.String("report_id", enriched.ID),
			slog.String("error", err.Error()))
	}

	s.metrics.ReportsTotal.WithLabelValues("ok").Inc()
	s.metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusCreated, doc)
}

// fail writes a structured error response and counts the outcome.
func (s *Server) fail(w http.ResponseWriter, status int, outcome, message string, violations []string) {
	s.metrics.ReportsTotal.WithLabelValues(outcome).Inc()

	resp := map[string]any{"error": message}
	if len(violations) > 0 {
		resp["violations"] = violations
	}
	writeJSON(w, status, resp)
}

// ----------------------------------------------------------------------------
// GET /api/systems
// ----------------------------------------------------------------------------

// handleSystems returns the dropdown options for the report form.
func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ix := s.store.Index()
	systems, organizations := ix.Size()
	s.metrics.KBSystems.Set(float64(systems))
	s.metrics.KBOrganizations.Set(float64(organizations))

	options := ix.SystemOptions()
	if options == nil {
		options = []kb.Option{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"systems": options})
}

// ----------------------------------------------------------------------------
// GET /healthz
// ----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	systems, organizations := s.store.Index().Size()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"systems":       systems,
		"organizations": organizations,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
