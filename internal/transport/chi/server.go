// Package chi implements the HTTP transport for the retrieval API.
package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	chirouter "github.com/go-chi/chi/v5"

	"github.com/insightlib/quill/internal/domain"
	"github.com/insightlib/quill/internal/domain/query"
	"github.com/insightlib/quill/internal/domain/result"
	healthuc "github.com/insightlib/quill/internal/usecase/health"
	retrievaluc "github.com/insightlib/quill/internal/usecase/retrieval"
)

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	retrieval *retrievaluc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(retrieval *retrievaluc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{retrieval: retrieval, health: health, logger: logger}
}

// RegisterRoutes mounts all endpoints on the router.
func (s *Server) RegisterRoutes(r chirouter.Router) {
	r.Post("/api/v1/search/knowledge", s.SearchKnowledge)
	r.Post("/api/v1/search/quotes", s.SearchQuotes)
	r.Post("/api/v1/search/images", s.SearchImages)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// --- Request/response shapes ---

type searchRequest struct {
	Query     string `json:"query"`
	Context   string `json:"context,omitempty"`
	ChartType string `json:"chart_type,omitempty"`
	Count     int    `json:"count,omitempty"`
}

type searchResultItem struct {
	ID         string         `json:"id"`
	Score      float64        `json:"score"`
	Relevance  int            `json:"relevance"`
	Provenance string         `json:"provenance"`
	Fields     map[string]any `json:"fields,omitempty"`
}

type searchStats struct {
	Curated   int `json:"curated"`
	Extracted int `json:"extracted"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Stats   searchStats        `json:"stats"`
}

// SearchKnowledge handles POST /api/v1/search/knowledge.
func (s *Server) SearchKnowledge(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	q, err := query.NewKnowledgeQuery(req.Query, req.Count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.retrieval.SearchKnowledge(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// SearchQuotes handles POST /api/v1/search/quotes.
func (s *Server) SearchQuotes(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	q, err := query.NewQuoteQuery(req.Query, query.Context(req.Context), req.Count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.retrieval.SearchQuotes(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// SearchImages handles POST /api/v1/search/images.
func (s *Server) SearchImages(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	q, err := query.NewImageQuery(req.Query, req.ChartType, req.Count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.retrieval.SearchImages(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
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

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return searchRequest{}, false
	}
	return req, true
}

func toSearchResponse(resp retrievaluc.Response) searchResponse {
	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = toResultItem(&resp.Results[i])
	}
	return searchResponse{
		Results: items,
		Stats: searchStats{
			Curated:   resp.Stats.Curated,
			Extracted: resp.Stats.Extracted,
		},
	}
}

func toResultItem(r *result.Result) searchResultItem {
	return searchResultItem{
		ID:         r.ID(),
		Score:      r.Score(),
		Relevance:  int(math.Round(r.Score() * 100)),
		Provenance: string(r.Provenance()),
		Fields:     r.Fields(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbeddingMalformed,
		domain.ErrSearchProviderError,
		domain.ErrPoolNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// handleDomainError maps sentinel errors to statuses. Upstream failures are
// hard failures: the caller must be able to tell "no matches" (200, empty)
// from "the search could not be performed" (500).
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		s.logger.Warn("invalid search request", zap.Error(err))
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrEmbeddingMalformed),
		errors.Is(err, domain.ErrSearchProviderError),
		errors.Is(err, domain.ErrPoolNotConfigured):
		s.logger.Error("upstream failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
