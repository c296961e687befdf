// Package chi implements the HTTP API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/townstage/searchcore/internal/domain"
	"github.com/townstage/searchcore/internal/domain/search/result"
	healthuc "github.com/townstage/searchcore/internal/usecase/health"
	searchuc "github.com/townstage/searchcore/internal/usecase/search"
)

const maxQueryLen = 1024

// Server exposes the search pipeline over HTTP.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Routes registers all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Query) > maxQueryLen {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query too long")
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be non-negative")
		return
	}

	resp, err := s.search.Search(r.Context(), searchuc.Request{
		Query:   req.Query,
		Filters: req.Filters,
		Limit:   req.Limit,
		Debug:   req.Debug,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := SearchResponse{Results: resp.Results}
	if out.Results == nil {
		out.Results = []result.Result{}
	}
	if req.Debug {
		out.AppliedFilters = &resp.AppliedFilters
		out.QueryTimeMs = &resp.QueryTimeMs
		out.EmbeddingsUsed = &resp.EmbeddingsUsed
	}

	writeJSON(w, http.StatusOK, out)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, codeRateLimited, "rate limited")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
