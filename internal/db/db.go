package db

import (
	"context"
	"time"
)

// Store is the vector store facade consumed by the repository layer.
type Store interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	// TagFilter restricts matches to documents whose TagField holds one of
	// these values. Empty means no pre-filter.
	TagField     string
	TagValues    []string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// IndexFieldType enumerates supported index field types.
type IndexFieldType string

const (
	IndexFieldTag    IndexFieldType = "tag"
	IndexFieldVector IndexFieldType = "vector"
)

// IndexField describes one field of an FT index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// Vector field attributes (HNSW).
	VectorDim         int
	VectorM           int
	VectorEFConstruct int
}

// IndexDefinition describes an FT index over hash documents.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}
