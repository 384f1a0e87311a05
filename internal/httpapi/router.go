// Package httpapi serves the catalog viewer over a local JSON API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/erauner12/catalogview/internal/auth"
	"github.com/erauner12/catalogview/internal/metrics"
	"github.com/erauner12/catalogview/internal/service/catalogservice"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Server holds dependencies for HTTP handlers
type Server struct {
	Svc             *catalogservice.Service
	Metrics         *metrics.Metrics // nil disables /metrics
	JWT             auth.JWTCfg      // empty secret leaves mutations open
	RateLimitConfig RateLimitInfo
	UpstreamURL     string
	Version         string
}

// errorResp is the body of every non-2xx JSON response
type errorResp struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}

// writeError writes an errorResp carrying the request's correlation id
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, errorResp{Error: msg, CorrelationID: GetCorrelationID(r.Context())})
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// parseIntParam parses an optional integer query param. An empty value
// yields def; anything non-numeric is reported as !ok.
func parseIntParam(q string, def int) (int, bool) {
	if q == "" {
		return def, true
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Routes creates the HTTP router with all catalog endpoints
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationMiddleware)
	r.Use(AccessLogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", s.Info)

		// Shared viewer state
		r.Get("/view", s.GetView)
		r.Post("/view/search", s.SearchView)
		r.Post("/view/sort", s.SortView)
		r.Post("/view/page", s.PageView)
		r.Post("/view/page-size", s.PageSizeView)

		// Stateless reads
		r.Get("/products", s.QueryProducts)
		r.Get("/products/{id}", s.GetProduct)
		r.Get("/export.csv", s.ExportCSV)

		// Mutations reach the product API
		r.Group(func(r chi.Router) {
			if s.JWT.HS256Secret != "" {
				r.Use(auth.Middleware(s.JWT))
			}
			r.Use(RateLimitMiddleware(s.RateLimitConfig))

			r.Post("/products", s.CreateProduct)
			r.Put("/products/{id}", s.UpdateProduct)
			r.Post("/reload", s.Reload)
		})
	})

	log.Info().
		Bool("auth", s.JWT.HS256Secret != "").
		Bool("metrics", s.Metrics != nil).
		Msg("HTTP routes registered")
	return r
}
