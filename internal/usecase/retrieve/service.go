package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

// DefaultSimilarityFloor is the relevance gate applied after the store's
// own ranking. Items at or below the floor are discarded.
const DefaultSimilarityFloor = 0.3

// Service fetches nearest neighbors and applies the similarity floor.
// Store failures propagate: the vector store is a hard dependency.
type Service struct {
	repo  Repository
	floor float64
}

// New creates a retriever with the default similarity floor.
func New(repo Repository) *Service {
	return &Service{repo: repo, floor: DefaultSimilarityFloor}
}

// WithFloor overrides the similarity floor.
func (s *Service) WithFloor(floor float64) *Service {
	s.floor = floor
	return s
}

// Retrieve runs one width-limited similarity search scoped to the request
// types and drops items at or below the similarity floor. An empty result
// is valid; callers substitute the no-context sentinel downstream.
func (s *Service) Retrieve(ctx context.Context, req domain.RetrievalRequest) ([]domain.ContentItem, error) {
	items, err := s.repo.Search(ctx, req.QueryEmbedding, req.Types, req.Width)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		if it.Similarity > s.floor {
			kept = append(kept, it)
		}
	}

	if dropped := len(items) - len(kept); dropped > 0 {
		metrics.RetrievalItemsFiltered.Add(float64(dropped))
		logger.FromContext(ctx).Debug("dropped items below similarity floor",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(kept)),
			zap.Float64("floor", s.floor),
		)
	}
	return kept, nil
}
