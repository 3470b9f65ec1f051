package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

const (
	// shortCircuitLen is the result-set size at or below which the
	// ranking call is skipped and store order kept.
	shortCircuitLen = 3

	// DefaultTruncateChars bounds each item's text in the ranking prompt.
	DefaultTruncateChars = 500
)

const systemPrompt = `You rank documents by relevance to a query. You are given a query
and a numbered list of documents. Respond with ONLY a JSON array of the
document indices ordered from most to least relevant, e.g. [2, 0, 1].
Include every index exactly once.`

// Service reorders a retrieved batch by estimated relevance. Ranking
// failures fall back to store order and never surface to the caller.
type Service struct {
	llm      Completer
	truncate int
}

// New creates a reranker service.
func New(llm Completer) *Service {
	return &Service{llm: llm, truncate: DefaultTruncateChars}
}

// WithTruncation overrides the per-item text budget in the ranking prompt.
func (s *Service) WithTruncation(chars int) *Service {
	s.truncate = chars
	return s
}

// Rerank reorders items by relevance to the query and truncates the
// result to topN when topN > 0. Every input item appears in the output:
// items the ranking call omits sink to the bottom with score 0 rather
// than being dropped. Scores order items within this batch only.
func (s *Service) Rerank(
	ctx context.Context, query string, items []domain.ContentItem, topN int,
) []domain.RankedResult {
	if len(items) == 0 {
		return nil
	}

	var ranked []domain.RankedResult
	if len(items) <= shortCircuitLen {
		ranked = storeOrder(items)
	} else {
		perm, err := s.rankPermutation(ctx, query, items)
		if err != nil {
			logger.FromContext(ctx).Warn("reranking failed, keeping store order",
				zap.Error(err),
				zap.Int("items", len(items)),
				zap.String("query_prefix", prefix(query, 64)),
			)
			metrics.PipelineDegradedTotal.WithLabelValues(string(domain.StepRerank)).Inc()
			ranked = storeOrder(items)
		} else {
			ranked = applyPermutation(items, perm)
		}
	}

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// storeOrder keeps the incoming order and assigns strictly decreasing scores.
func storeOrder(items []domain.ContentItem) []domain.RankedResult {
	out := make([]domain.RankedResult, len(items))
	for i, it := range items {
		out[i] = domain.RankedResult{ContentItem: it, RerankScore: len(items) - i}
	}
	return out
}

// applyPermutation scores items by their rank position: position r gets
// len(perm)-r, indices absent from perm get 0. The final order is a
// stable descending sort so omitted items keep their store-ranked
// relative order at the bottom.
func applyPermutation(items []domain.ContentItem, perm []int) []domain.RankedResult {
	out := make([]domain.RankedResult, len(items))
	for i, it := range items {
		out[i] = domain.RankedResult{ContentItem: it}
	}
	for r, idx := range perm {
		out[idx].RerankScore = len(perm) - r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}

func (s *Service) rankPermutation(
	ctx context.Context, query string, items []domain.ContentItem,
) ([]int, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nDocuments:\n", query)
	for i, it := range items {
		fmt.Fprintf(&b, "[%d] %s\n", i, truncateText(it.Text, s.truncate))
	}

	out, err := s.llm.Complete(ctx, domain.Completion{
		Step:   domain.StepRerank,
		System: systemPrompt,
		User:   b.String(),
	})
	if err != nil {
		return nil, err
	}
	return decodePermutation(out, len(items))
}

// decodePermutation decodes a JSON index array and validates it against
// the input size: every index in [0, n), no duplicates. A short array is
// allowed (omitted indices score 0); out-of-range or duplicate indices
// are not.
func decodePermutation(out string, n int) ([]int, error) {
	s := stripCodeFence(out)

	var perm []int
	if err := json.Unmarshal([]byte(s), &perm); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	if len(perm) > n {
		return nil, fmt.Errorf("ranking has %d entries for %d documents", len(perm), n)
	}

	seen := make(map[int]bool, len(perm))
	for _, idx := range perm {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("ranking index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return nil, fmt.Errorf("ranking index %d repeated", idx)
		}
		seen[idx] = true
	}
	return perm, nil
}

func truncateText(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
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
