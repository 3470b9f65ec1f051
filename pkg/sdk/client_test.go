package talentrag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/talentrag/internal/domain"
	batchuc "github.com/kailas-cloud/talentrag/internal/usecase/batch"
	chatuc "github.com/kailas-cloud/talentrag/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/talentrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentrag/internal/usecase/ingest"
	usageuc "github.com/kailas-cloud/talentrag/internal/usecase/usage"
)

// --- Mocks ---

type mockChat struct {
	ans chatuc.Answer
	err error
}

func (m *mockChat) HandleQuery(_ context.Context, _ string) (chatuc.Answer, error) {
	return m.ans, m.err
}

type mockIngest struct {
	item domain.ContentItem
	err  error
}

func (m *mockIngest) IngestJob(_ context.Context, _ ingestuc.JobPosting) (domain.ContentItem, error) {
	return m.item, m.err
}

func (m *mockIngest) IngestProfile(_ context.Context, _ ingestuc.Profile) (domain.ContentItem, error) {
	return m.item, m.err
}

func (m *mockIngest) IngestDocument(_ context.Context, id, text string, ct domain.ContentType) (domain.ContentItem, error) {
	if m.err != nil {
		return domain.ContentItem{}, m.err
	}
	return domain.ContentItem{ID: id, Text: text, Type: ct}, nil
}

type mockBatch struct {
	results []batchuc.Result
}

func (m *mockBatch) Jobs(_ context.Context, _ []ingestuc.JobPosting) []batchuc.Result {
	return m.results
}

func (m *mockBatch) Profiles(_ context.Context, _ []ingestuc.Profile) []batchuc.Result {
	return m.results
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type mockUsage struct {
	report usageuc.Report
}

func (m *mockUsage) GetReport(_ context.Context, _ usageuc.Period) usageuc.Report {
	return m.report
}

// --- Tests ---

func TestQuery_MapsAnswer(t *testing.T) {
	c := &Client{chatSvc: &mockChat{ans: chatuc.Answer{
		Response:         "two jobs match",
		ContextItemsUsed: 2,
		DocumentTypes:    []domain.ContentType{domain.TypeJob},
		Width:            10,
	}}}

	ans, err := c.Query(context.Background(), "go jobs?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Response != "two jobs match" || ans.ContextItemsUsed != 2 || ans.Width != 10 {
		t.Errorf("unexpected answer: %+v", ans)
	}
	if len(ans.DocumentTypes) != 1 || ans.DocumentTypes[0] != TypeJob {
		t.Errorf("unexpected types: %v", ans.DocumentTypes)
	}
}

func TestQuery_WrapsSentinel(t *testing.T) {
	c := &Client{chatSvc: &mockChat{err: domain.ErrEmptyQuery}}

	_, err := c.Query(context.Background(), "")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestIngestJob_MapsItem(t *testing.T) {
	c := &Client{ingestSvc: &mockIngest{
		item: domain.ContentItem{ID: "job_7", Type: domain.TypeJob},
	}}

	item, err := c.IngestJob(context.Background(), JobPosting{ID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "job_7" || item.Type != TypeJob {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestIngestDocument_RejectsUnknownType(t *testing.T) {
	c := &Client{ingestSvc: &mockIngest{}}

	if _, err := c.IngestDocument(context.Background(), "x", "text", ContentType("resume")); err == nil {
		t.Fatal("expected error for unknown content type")
	}
}

func TestBatchIngestJobs_MapsResults(t *testing.T) {
	c := &Client{batchSvc: &mockBatch{results: []batchuc.Result{
		{ID: "job_1"},
		{ID: "job_2", Err: domain.ErrEmbeddingProviderError},
	}}}

	results := c.BatchIngestJobs(context.Background(), []JobPosting{{ID: 1}, {ID: 2}})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].OK || results[0].Err != nil {
		t.Errorf("result 1 should be ok: %+v", results[0])
	}
	if results[1].OK || !errors.Is(results[1].Err, ErrEmbeddingProviderError) {
		t.Errorf("result 2 should carry the provider error: %+v", results[1])
	}
}

func TestHealth_MapsReport(t *testing.T) {
	c := &Client{healthSvc: &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"database":  healthuc.CheckOK,
			"embedding": healthuc.CheckError,
		},
	}}}

	status := c.Health(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if status.Checks["embedding"] != "error" {
		t.Errorf("unexpected checks: %v", status.Checks)
	}
}

func TestUsage_MapsReport(t *testing.T) {
	dayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	c := &Client{usageSvc: &mockUsage{report: usageuc.Report{
		Period:      usageuc.PeriodDay,
		PeriodStart: dayStart.UnixMilli(),
		PeriodEnd:   dayStart.Add(24 * time.Hour).UnixMilli(),
		TokensUsed:  500,
		TokenLimit:  1000,
		Remaining:   500,
	}}}

	report := c.Usage(context.Background(), PeriodDay)
	if report.Period != PeriodDay || report.TokensUsed != 500 || report.Remaining != 500 {
		t.Errorf("unexpected report: %+v", report)
	}
	if !report.PeriodStart.Equal(dayStart) {
		t.Errorf("period start = %v", report.PeriodStart)
	}
	if report.Exhausted {
		t.Error("report must not be exhausted")
	}
}

func TestNew_RequiresAddress(t *testing.T) {
	if _, err := New(context.Background(), WithOpenAI("key")); err == nil {
		t.Fatal("expected error without database address")
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), WithRedis("localhost:6379", "")); err == nil {
		t.Fatal("expected error without API key")
	}
}
