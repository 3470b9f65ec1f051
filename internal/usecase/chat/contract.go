package chat

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/usecase/classify"
	"github.com/kailas-cloud/talentrag/internal/usecase/width"
)

// Classifier scopes retrieval to content types.
type Classifier interface {
	Classify(ctx context.Context, query string) classify.Result
}

// WidthSelector picks the retrieval fetch count.
type WidthSelector interface {
	Select(ctx context.Context, query string) width.Result
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever fetches similarity-filtered context items.
type Retriever interface {
	Retrieve(ctx context.Context, req domain.RetrievalRequest) ([]domain.ContentItem, error)
}

// Reranker reorders retrieved items by relevance.
type Reranker interface {
	Rerank(ctx context.Context, query string, items []domain.ContentItem, topN int) []domain.RankedResult
}

// Completer issues the final answering chat call.
type Completer interface {
	Complete(ctx context.Context, c domain.Completion) (string, error)
}
