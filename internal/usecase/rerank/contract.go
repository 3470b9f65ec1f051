package rerank

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Completer issues the relevance-ranking chat call.
type Completer interface {
	Complete(ctx context.Context, c domain.Completion) (string, error)
}
