package content

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentrag/internal/db"
	"github.com/kailas-cloud/talentrag/internal/domain"
)

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotDef *db.IndexDefinition
	ms.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		if name != "talentrag:content:idx" {
			t.Errorf("unexpected index name %q", name)
		}
		return false, nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDef == nil {
		t.Fatal("expected CreateIndex call")
	}
	if len(gotDef.Prefixes) != 1 || gotDef.Prefixes[0] != "talentrag:content:" {
		t.Errorf("unexpected prefixes %v", gotDef.Prefixes)
	}
	if len(gotDef.Fields) != 3 {
		t.Fatalf("expected 3 schema fields, got %d", len(gotDef.Fields))
	}
	if gotDef.Fields[2].VectorDim != 4 {
		t.Errorf("vector dim = %d, want 4", gotDef.Fields[2].VectorDim)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called")
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_ToleratesCreationRace(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsert_WritesAllFields(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	item := domain.ContentItem{
		ID:        "job_7",
		Embedding: []float32{0.1, 0.2, 0.3, 0.4},
		Text:      "Job Title: Engineer",
		Type:      domain.TypeJob,
		Owner:     "1",
	}
	if err := repo.Upsert(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "talentrag:content:job_7" {
		t.Errorf("key = %q", gotKey)
	}
	if gotFields["context"] != "Job Title: Engineer" {
		t.Errorf("context = %q", gotFields["context"])
	}
	if gotFields["document_type"] != "job" {
		t.Errorf("document_type = %q", gotFields["document_type"])
	}
	if gotFields["owner"] != "1" {
		t.Errorf("owner = %q", gotFields["owner"])
	}
	if len(gotFields["vector"]) != 16 {
		t.Errorf("vector blob length = %d, want 16", len(gotFields["vector"]))
	}
}

func TestUpsert_Invalid(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Upsert(context.Background(), domain.ContentItem{Embedding: []float32{0.1}}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := repo.Upsert(context.Background(), domain.ContentItem{ID: "x"}); err == nil {
		t.Fatal("expected error for missing embedding")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSearch_MapsEntriesToItems(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.TagField != "document_type" {
			t.Errorf("tag field = %q", q.TagField)
		}
		if len(q.TagValues) != 2 {
			t.Errorf("tag values = %v", q.TagValues)
		}
		if q.K != 10 {
			t.Errorf("k = %d", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:   "talentrag:content:job_1",
					Score: 0.92,
					Fields: map[string]string{
						"context":       "Job Title: Engineer",
						"document_type": "job",
						"owner":         "1",
					},
				},
				{
					Key:   "talentrag:content:profile_1",
					Score: 0.55,
					Fields: map[string]string{
						"context":       "Name: Ada",
						"document_type": "profile",
						"owner":         "1",
					},
				},
			},
		}, nil
	}

	items, err := repo.Search(
		context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, domain.AllTypes(), 10,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "job_1" || items[0].Type != domain.TypeJob {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[0].Similarity != 0.92 {
		t.Errorf("similarity = %f", items[0].Similarity)
	}
	if items[1].ID != "profile_1" || items[1].Type != domain.TypeProfile {
		t.Errorf("unexpected second item %+v", items[1])
	}
}

func TestSearch_PropagatesStoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	storeErr := &db.Error{Op: db.OpSearch, Err: context.DeadlineExceeded}
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.Search(context.Background(), []float32{0.1}, domain.AllTypes(), 5)
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("expected wrapped db.Error, got %v", err)
	}
}
