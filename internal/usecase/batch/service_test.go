package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
)

// --- Mocks ---

type mockIngestor struct {
	jobFn     func(ctx context.Context, job ingest.JobPosting) (domain.ContentItem, error)
	profileFn func(ctx context.Context, profile ingest.Profile) (domain.ContentItem, error)
}

func (m *mockIngestor) IngestJob(ctx context.Context, job ingest.JobPosting) (domain.ContentItem, error) {
	return m.jobFn(ctx, job)
}

func (m *mockIngestor) IngestProfile(ctx context.Context, profile ingest.Profile) (domain.ContentItem, error) {
	return m.profileFn(ctx, profile)
}

func jobs(n int) []ingest.JobPosting {
	out := make([]ingest.JobPosting, n)
	for i := range out {
		out[i] = ingest.JobPosting{ID: i + 1, Title: fmt.Sprintf("Engineer %d", i+1)}
	}
	return out
}

// --- Tests ---

func TestJobs_AllSucceed(t *testing.T) {
	ing := &mockIngestor{
		jobFn: func(_ context.Context, job ingest.JobPosting) (domain.ContentItem, error) {
			return domain.ContentItem{ID: fmt.Sprintf("job_%d", job.ID)}, nil
		},
	}
	svc := New(ing)

	results := svc.Jobs(context.Background(), jobs(3))

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
		if want := fmt.Sprintf("job_%d", i+1); r.ID != want {
			t.Errorf("result %d id = %q, want %q", i, r.ID, want)
		}
	}
}

func TestJobs_PerItemFailureContinues(t *testing.T) {
	ing := &mockIngestor{
		jobFn: func(_ context.Context, job ingest.JobPosting) (domain.ContentItem, error) {
			if job.ID == 2 {
				return domain.ContentItem{}, domain.ErrEmbeddingProviderError
			}
			return domain.ContentItem{ID: fmt.Sprintf("job_%d", job.ID)}, nil
		},
	}
	svc := New(ing)

	results := svc.Jobs(context.Background(), jobs(3))

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("items 1 and 3 must succeed")
	}
	if !errors.Is(results[1].Err, domain.ErrEmbeddingProviderError) {
		t.Errorf("result 2 err = %v", results[1].Err)
	}
}

func TestJobs_QuotaErrorCascades(t *testing.T) {
	var calls int
	ing := &mockIngestor{
		jobFn: func(_ context.Context, _ ingest.JobPosting) (domain.ContentItem, error) {
			calls++
			return domain.ContentItem{}, domain.ErrEmbeddingQuotaExceeded
		},
	}
	svc := New(ing)

	results := svc.Jobs(context.Background(), jobs(5))

	if calls != 1 {
		t.Errorf("ingestor called %d times, want 1", calls)
	}
	for i, r := range results {
		if !errors.Is(r.Err, domain.ErrEmbeddingQuotaExceeded) {
			t.Errorf("result %d err = %v", i, r.Err)
		}
	}
	// Cascaded items keep their ids for reporting.
	if results[4].ID != "job_5" {
		t.Errorf("result 5 id = %q", results[4].ID)
	}
}

func TestJobs_OversizedBatchRejected(t *testing.T) {
	ing := &mockIngestor{
		jobFn: func(_ context.Context, _ ingest.JobPosting) (domain.ContentItem, error) {
			t.Fatal("ingestor must not be called")
			return domain.ContentItem{}, nil
		},
	}
	svc := New(ing).WithMaxBatchSize(2)

	results := svc.Jobs(context.Background(), jobs(3))

	for i, r := range results {
		if r.Err == nil {
			t.Errorf("result %d: expected error", i)
		}
	}
}

func TestProfiles_IDsFromLinkedIn(t *testing.T) {
	ing := &mockIngestor{
		profileFn: func(_ context.Context, p ingest.Profile) (domain.ContentItem, error) {
			return domain.ContentItem{ID: p.LinkedInURL}, nil
		},
	}
	svc := New(ing)

	profiles := []ingest.Profile{
		{Name: "Dana", LinkedInURL: "https://linkedin.com/in/dana"},
		{Name: "Lee", LinkedInURL: "https://linkedin.com/in/lee"},
	}
	results := svc.Profiles(context.Background(), profiles)

	if results[0].ID != "https://linkedin.com/in/dana" {
		t.Errorf("result 1 id = %q", results[0].ID)
	}
	if results[1].Err != nil {
		t.Errorf("unexpected error: %v", results[1].Err)
	}
}
