package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// BudgetedEmbedder wraps an Embedder with budget enforcement.
// Transport metrics (requests, duration, tokens) are recorded in
// transport/openai; this layer owns budget tracking and the budget gauge.
type BudgetedEmbedder struct {
	inner  domain.Embedder
	budget BudgetChecker
	logger *zap.Logger
}

// NewBudgetedEmbedder wraps an embedder with budget enforcement.
func NewBudgetedEmbedder(inner domain.Embedder, budget BudgetChecker, logger *zap.Logger) *BudgetedEmbedder {
	return &BudgetedEmbedder{inner: inner, budget: budget, logger: logger}
}

// Embed checks the budget, delegates to the inner embedder, and records usage.
func (p *BudgetedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("budget exceeded", zap.Error(err))
			return domain.EmbeddingResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if p.budget != nil && result.TotalTokens > 0 {
		p.budget.Record(int64(result.TotalTokens))
		remaining := metrics.EmbeddingBudgetTokensRemaining
		remaining.WithLabelValues("daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues("monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("embedding request completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
