package classify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

const systemPrompt = `You classify job-search queries. Respond with exactly one word:
"job" if the query is about job postings or open positions,
"profile" if it is about candidates or their profiles,
"both" if it spans both or you are unsure.
Respond with only that single word, nothing else.`

// Result is the classifier output. Degraded marks requests where the
// classification call failed or produced an unrecognized label and the
// full type set was substituted instead.
type Result struct {
	Types    []domain.ContentType
	Degraded bool
	Cause    error
}

// Service maps a free-text query to the content types it targets.
// Classification failures never surface to the caller: the scope widens
// to every type instead (availability over precision).
type Service struct {
	llm Completer
}

// New creates a classifier service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Classify returns the retrieval type scope for a query. The returned
// type set is never empty.
func (s *Service) Classify(ctx context.Context, query string) Result {
	out, err := s.llm.Complete(ctx, domain.Completion{
		Step:   domain.StepClassify,
		System: systemPrompt,
		User:   query,
	})
	if err != nil {
		return s.degrade(ctx, query, err)
	}

	label := normalizeLabel(out)
	switch label {
	case domain.LabelJob, domain.LabelProfile, domain.LabelBoth:
		return Result{Types: domain.TypesForLabel(label)}
	default:
		logger.FromContext(ctx).Warn("classifier returned unrecognized label",
			zap.String("label", label),
			zap.String("query_prefix", prefix(query, 64)),
		)
		metrics.PipelineDegradedTotal.WithLabelValues(string(domain.StepClassify)).Inc()
		return Result{Types: domain.AllTypes(), Degraded: true}
	}
}

func (s *Service) degrade(ctx context.Context, query string, err error) Result {
	logger.FromContext(ctx).Warn("classification failed, widening to all types",
		zap.Error(err),
		zap.String("query_prefix", prefix(query, 64)),
	)
	metrics.PipelineDegradedTotal.WithLabelValues(string(domain.StepClassify)).Inc()
	return Result{Types: domain.AllTypes(), Degraded: true, Cause: err}
}

// normalizeLabel strips quotes, punctuation, and case the model tends to
// wrap single-word answers in.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, "\"'`.! ")
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
