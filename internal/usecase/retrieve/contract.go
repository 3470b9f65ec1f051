package retrieve

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Repository runs similarity searches against the vector store.
type Repository interface {
	Search(ctx context.Context, vector []float32, types []domain.ContentType, k int) ([]domain.ContentItem, error)
}
