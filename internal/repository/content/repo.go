package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentrag/internal/db"
	dbredis "github.com/kailas-cloud/talentrag/internal/db/redis"
	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Hash field names for stored content items.
const (
	fieldContext = "context"
	fieldType    = "document_type"
	fieldOwner   = "owner"
	fieldVector  = "vector"
)

// store is the consumer interface for content operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig holds index construction parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo stores and searches content items as Redis hashes under an FT index.
type Repo struct {
	store     store
	keyPrefix string
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a content repository. keyPrefix namespaces all keys (e.g. "talentrag:").
func New(s store, keyPrefix string, vectorDim int) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, vectorDim: vectorDim}
}

// WithHNSW overrides HNSW index construction parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "content:" + id
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "content:idx"
}

// EnsureIndex creates the content index if it does not exist yet. Safe to
// call on every startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.keyPrefix + "content:"},
		Fields: []db.IndexField{
			{Name: fieldType, Type: db.IndexFieldTag},
			{Name: fieldOwner, Type: db.IndexFieldTag},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorDim:         r.vectorDim,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost the creation race to another instance — the index is there.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert stores a content item, overwriting any previous version.
func (r *Repo) Upsert(ctx context.Context, item domain.ContentItem) error {
	if item.ID == "" {
		return fmt.Errorf("content id is required")
	}
	if len(item.Embedding) == 0 {
		return fmt.Errorf("content embedding is required")
	}

	fields := map[string]string{
		fieldContext: item.Text,
		fieldType:    string(item.Type),
		fieldOwner:   item.Owner,
		fieldVector:  dbredis.VectorToBytes(item.Embedding),
	}

	if err := r.store.HSet(ctx, r.key(item.ID), fields); err != nil {
		return fmt.Errorf("upsert content %s: %w", item.ID, err)
	}
	return nil
}

// Get loads a single content item by id. The stored embedding is not
// returned; it only exists for index use.
func (r *Repo) Get(ctx context.Context, id string) (domain.ContentItem, error) {
	fields, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("get content %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.ContentItem{}, fmt.Errorf("content %s: %w", id, db.ErrKeyNotFound)
	}
	return r.itemFromFields(id, fields, 0), nil
}

// Delete removes a content item.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete content %s: %w", id, err)
	}
	return nil
}

// Search runs one KNN lookup scoped to the given types, limited to k results,
// ordered by descending store similarity.
func (r *Repo) Search(
	ctx context.Context, vector []float32, types []domain.ContentType, k int,
) ([]domain.ContentItem, error) {
	tagValues := make([]string, len(types))
	for i, t := range types {
		tagValues[i] = string(t)
	}

	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		TagField:     fieldType,
		TagValues:    tagValues,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{fieldContext, fieldType, fieldOwner, "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	items := make([]domain.ContentItem, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix+"content:")
		items = append(items, r.itemFromFields(id, entry.Fields, entry.Score))
	}
	return items, nil
}

func (r *Repo) itemFromFields(id string, fields map[string]string, score float64) domain.ContentItem {
	ct, err := domain.ParseContentType(fields[fieldType])
	if err != nil {
		ct = "" // malformed rows keep their raw text but lose the type
	}
	return domain.ContentItem{
		ID:         id,
		Text:       fields[fieldContext],
		Type:       ct,
		Owner:      fields[fieldOwner],
		Similarity: score,
	}
}
