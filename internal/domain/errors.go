package domain

import "errors"

var (
	// ErrEmptyQuery signals a chat request without a user message.
	ErrEmptyQuery = errors.New("empty query")
	// ErrEmptyDocument signals an ingest request without text content.
	ErrEmptyDocument = errors.New("empty document")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals the embedding token budget is spent
	// and the tracker is configured to reject.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrLLMProviderError signals a chat-completion provider failure on a
	// fatal call (answering, resume parsing). Degradable calls never
	// surface this to callers.
	ErrLLMProviderError = errors.New("llm provider error")
)
