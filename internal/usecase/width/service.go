package width

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

const systemPrompt = `You size retrieval for a job-search assistant. Given a user query,
decide how many documents to fetch from the vector store:
- narrow lookups (one specific job or person): 3-5
- typical questions: 8-12
- broad or enumeration queries ("list all", "compare", "overview"): 15-20
Respond with ONLY a JSON object of the form {"top_k": N} where N is an integer.`

// Result is the width selector output. Degraded marks requests where
// the sizing call failed or returned something undecodable and the
// default width was substituted.
type Result struct {
	Width    int
	Degraded bool
	Cause    error
}

// Service picks how many documents to fetch for a query. The returned
// width always lies within the retrieval bounds; sizing failures fall
// back to the default width and never surface to the caller.
type Service struct {
	llm Completer
}

// New creates a width selector service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Select returns the retrieval width for a query.
func (s *Service) Select(ctx context.Context, query string) Result {
	out, err := s.llm.Complete(ctx, domain.Completion{
		Step:   domain.StepWidth,
		System: systemPrompt,
		User:   query,
	})
	if err != nil {
		return s.degrade(ctx, query, err)
	}

	w, err := decodeTopK(out)
	if err != nil {
		return s.degrade(ctx, query, err)
	}
	return Result{Width: domain.ClampWidth(w)}
}

func (s *Service) degrade(ctx context.Context, query string, err error) Result {
	logger.FromContext(ctx).Warn("width selection failed, using default",
		zap.Error(err),
		zap.Int("default", domain.DefaultWidth),
		zap.String("query_prefix", prefix(query, 64)),
	)
	metrics.PipelineDegradedTotal.WithLabelValues(string(domain.StepWidth)).Inc()
	return Result{Width: domain.DefaultWidth, Degraded: true, Cause: err}
}

// decodeTopK strictly decodes a {"top_k": N} object from model output.
// Code fences are stripped first since models routinely wrap JSON in them.
func decodeTopK(out string) (int, error) {
	s := stripCodeFence(out)

	var payload struct {
		TopK *int `json:"top_k"`
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode top_k: %w", err)
	}
	if payload.TopK == nil {
		return 0, fmt.Errorf("decode top_k: field missing in %q", s)
	}
	return *payload.TopK, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
