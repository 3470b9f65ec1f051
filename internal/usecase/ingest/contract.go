package ingest

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Repository persists content items into the vector store.
type Repository interface {
	Upsert(ctx context.Context, item domain.ContentItem) error
}

// Embedder vectorizes document text before storage.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
