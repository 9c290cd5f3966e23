// Package chi exposes the query services over HTTP: JSON endpoints for
// classify/navigate/educate, SSE variants of the two workflows, plus
// health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/metrics"
	"github.com/AazainKhan/luminate-ai-sub001/internal/stream"
	classifyuc "github.com/AazainKhan/luminate-ai-sub001/internal/usecase/classify"
	educateuc "github.com/AazainKhan/luminate-ai-sub001/internal/usecase/educate"
	healthuc "github.com/AazainKhan/luminate-ai-sub001/internal/usecase/health"
	navigateuc "github.com/AazainKhan/luminate-ai-sub001/internal/usecase/navigate"
)

// Server holds the query services behind the HTTP API.
type Server struct {
	classify      *classifyuc.Service
	navigate      *navigateuc.Service
	educate       *educateuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	classify *classifyuc.Service,
	navigate *navigateuc.Service,
	educate *educateuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		classify: classify,
		navigate: navigate,
		educate:  educate,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		storeUnavailableHandler,
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, CodeInternalError),
	}
	return s
}

// RegisterRoutes mounts all API routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Post("/navigate", s.handleNavigate)
		r.Post("/educate", s.handleEducate)
		r.Post("/navigate/stream", s.handleNavigateStream)
		r.Post("/educate/stream", s.handleEducateStream)
	})
}

type queryRequest struct {
	Query   string `json:"query"`
	Context string `json:"context,omitempty"`
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

// handleClassify handles POST /v1/classify.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	c, err := s.classify.Classify(r.Context(), req.Query, req.Context)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleNavigate handles POST /v1/navigate.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.navigate.Navigate(r.Context(), req.Query, nil)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("navigate", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.QueriesTotal.WithLabelValues("navigate", "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

// handleEducate handles POST /v1/educate.
func (s *Server) handleEducate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.educate.Educate(r.Context(), req.Query, nil)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("educate", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.QueriesTotal.WithLabelValues("educate", "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

// handleNavigateStream handles POST /v1/navigate/stream.
func (s *Server) handleNavigateStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	events := stream.Run(r.Context(), func(ctx context.Context, obs domain.TraceObserver) (string, any, error) {
		resp, err := s.navigate.Navigate(ctx, req.Query, obs)
		if err != nil {
			metrics.QueriesTotal.WithLabelValues("navigate", "error").Inc()
			return "", nil, err
		}
		metrics.QueriesTotal.WithLabelValues("navigate", "ok").Inc()
		return resp.Answer, navigateMetadata(resp), nil
	})

	if err := stream.WriteSSE(w, r, events); err != nil {
		s.logger.Warn("navigate stream aborted", zap.Error(err))
	}
}

// handleEducateStream handles POST /v1/educate/stream.
func (s *Server) handleEducateStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	events := stream.Run(r.Context(), func(ctx context.Context, obs domain.TraceObserver) (string, any, error) {
		resp, err := s.educate.Educate(ctx, req.Query, obs)
		if err != nil {
			metrics.QueriesTotal.WithLabelValues("educate", "error").Inc()
			return "", nil, err
		}
		metrics.QueriesTotal.WithLabelValues("educate", "ok").Inc()
		return resp.Answer, educateMetadata(resp), nil
	})

	if err := stream.WriteSSE(w, r, events); err != nil {
		s.logger.Warn("educate stream aborted", zap.Error(err))
	}
}

// navigateMetadata is the metadata event payload of a navigate stream:
// everything but the answer text, which already went out as deltas.
func navigateMetadata(resp *navigateuc.Response) map[string]any {
	return map[string]any{
		"top_results":        resp.TopResults,
		"related_topics":     resp.RelatedTopics,
		"external_resources": resp.ExternalResources,
		"quiz_suggestion":    resp.QuizSuggestion,
	}
}

func educateMetadata(resp *educateuc.Response) map[string]any {
	return map[string]any{
		"level":           resp.Level,
		"sources":         resp.Sources,
		"quiz_suggestion": resp.QuizSuggestion,
	}
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
