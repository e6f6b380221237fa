// Package http serves the read API over the event catalog, plus health and metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
)

const apiMessage = "Sentinel Asia EOR API"

// EventReader provides the current event collection.
type EventReader interface {
	Events(ctx context.Context) []domain.Event
}

// Server exposes the read API and health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	events     EventReader
	products   domain.ProductLister
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the API routes plus /healthz, /readyz, and /metrics.
func NewServer(addr string, events EventReader, products domain.ProductLister, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // covers an uncached product page fetch
			IdleTimeout:  60 * time.Second,
		},
		events:   events,
		products: products,
		logger:   logger,
		metrics:  metrics,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /get_metadata", s.handleMetadata)
	mux.HandleFunc("GET /get_countries", s.handleCountries)
	mux.HandleFunc("GET /get_events", s.handleEvents)
	mux.HandleFunc("GET /get_products", s.handleProducts)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"message": apiMessage})
}

func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.DatasetMetadata())
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.Countries(s.events.Events(r.Context())))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		CountryCodes: domain.ParseCountryCodes(q.Get("countryiso3s")),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
	}
	sharedobs.WriteJSON(w, http.StatusOK, filter.Apply(s.events.Events(r.Context())))
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "query parameter url is required")
		return
	}
	if u, err := url.Parse(pageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be an absolute http or https URL")
		return
	}

	products, err := s.products.ListProducts(r.Context(), pageURL)
	if err != nil {
		s.metrics.ProductRequests.WithLabelValues("error").Inc()
		s.logger.Warn("product listing failed", "url", pageURL, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.metrics.ProductRequests.WithLabelValues("success").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, products)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	sharedobs.WriteJSON(w, status, map[string]string{"detail": detail})
}

// withCORS allows any origin to read the API and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "*")
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
