package talentrag

import "github.com/kailas-cloud/talentrag/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery             = domain.ErrEmptyQuery
	ErrEmptyDocument          = domain.ErrEmptyDocument
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrLLMProviderError       = domain.ErrLLMProviderError
)
