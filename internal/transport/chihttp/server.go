package chihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/db"
	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/talentrag/internal/usecase/health"
	"github.com/kailas-cloud/talentrag/internal/usecase/usage"
)

// ChatHandler answers grounded queries.
type ChatHandler interface {
	HandleQuery(ctx context.Context, query string) (chat.Answer, error)
}

// ResumeParser turns resume HTML into markdown, optionally storing it.
type ResumeParser interface {
	Parse(ctx context.Context, htmlContent string) (string, error)
	ParseAndStore(ctx context.Context, id, htmlContent string) (string, error)
}

// Ingestor stores documents as retrievable content.
type Ingestor interface {
	IngestDocument(ctx context.Context, id, text string, ct domain.ContentType) (domain.ContentItem, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports embedding token consumption.
type UsageReporter interface {
	GetReport(ctx context.Context, period usage.Period) usage.Report
}

// Server hosts the HTTP API over the query pipeline.
type Server struct {
	chat   ChatHandler
	resume ResumeParser
	ingest Ingestor
	health HealthChecker
	usage  UsageReporter
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	chatSvc ChatHandler,
	resumeSvc ResumeParser,
	ingestSvc Ingestor,
	healthSvc HealthChecker,
	usageSvc UsageReporter,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:   chatSvc,
		resume: resumeSvc,
		ingest: ingestSvc,
		health: healthSvc,
		usage:  usageSvc,
		logger: logger,
	}
}

// Routes mounts the API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/chat", s.Chat)
	r.Post("/api/parse-resume", s.ParseResume)
	r.Post("/api/documents", s.IngestDocument)
	r.Get("/api/health", s.HealthCheck)
	r.Get("/api/usage", s.Usage)
	r.Get("/metrics", s.Metrics)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response         string   `json:"response"`
	ContextItemsUsed int      `json:"context_items_used"`
	DocumentTypes    []string `json:"document_types"`
	Width            int      `json:"width"`
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "no message provided")
		return
	}

	ans, err := s.chat.HandleQuery(r.Context(), req.Message)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	types := make([]string, len(ans.DocumentTypes))
	for i, t := range ans.DocumentTypes {
		types[i] = string(t)
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:         ans.Response,
		ContextItemsUsed: ans.ContextItemsUsed,
		DocumentTypes:    types,
		Width:            ans.Width,
	})
}

type parseResumeRequest struct {
	HTMLContent string `json:"html_content"`
	// StoreAs, when non-empty, stores the parsed markdown as profile
	// content under this id.
	StoreAs string `json:"store_as,omitempty"`
}

type parseResumeResponse struct {
	ParsedResume string `json:"parsed_resume"`
	StoredAs     string `json:"stored_as,omitempty"`
}

// ParseResume handles POST /api/parse-resume.
func (s *Server) ParseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.HTMLContent == "" {
		writeError(w, http.StatusBadRequest, "no HTML content provided")
		return
	}

	var (
		parsed string
		err    error
	)
	if req.StoreAs != "" {
		parsed, err = s.resume.ParseAndStore(r.Context(), req.StoreAs, req.HTMLContent)
	} else {
		parsed, err = s.resume.Parse(r.Context(), req.HTMLContent)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResumeResponse{
		ParsedResume: parsed,
		StoredAs:     req.StoreAs,
	})
}

type ingestRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type ingestResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// IngestDocument handles POST /api/documents.
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}
	ct, err := domain.ParseContentType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.ingest.IngestDocument(r.Context(), req.ID, req.Text, ct)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{ID: item.ID, Type: string(item.Type)})
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

type usageResponse struct {
	Period      string `json:"period"`
	PeriodStart int64  `json:"period_start"`
	PeriodEnd   int64  `json:"period_end"`
	TokensUsed  int64  `json:"tokens_used"`
	TokenLimit  int64  `json:"token_limit"`
	Remaining   int64  `json:"remaining"`
	Exhausted   bool   `json:"exhausted"`
}

// Usage handles GET /api/usage. The period query param selects day (default)
// or month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period := usage.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = usage.PeriodDay
	}

	report := s.usage.GetReport(r.Context(), period)

	writeJSON(w, http.StatusOK, usageResponse{
		Period:      string(report.Period),
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		TokensUsed:  report.TokensUsed,
		TokenLimit:  report.TokenLimit,
		Remaining:   report.Remaining,
		Exhausted:   report.Exhausted,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the tagged error shape: {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrEmptyDocument,
		domain.ErrEmbeddingProviderError,
		domain.ErrLLMProviderError,
		domain.ErrEmbeddingQuotaExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrLLMProviderError):
		writeError(w, http.StatusBadGateway, msg)
	default:
		var dbErr *db.Error
		if errors.As(err, &dbErr) {
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
