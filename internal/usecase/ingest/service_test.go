package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

type mockRepo struct {
	err error
	got domain.ContentItem
}

func (m *mockRepo) Upsert(_ context.Context, item domain.ContentItem) error {
	m.got = item
	return m.err
}

type mockEmbedder struct {
	vec     []float32
	err     error
	gotText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 5}, nil
}

func newTestService() (*Service, *mockRepo, *mockEmbedder) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	return New(repo, embed, "1"), repo, embed
}

func TestIngestJob(t *testing.T) {
	svc, repo, embed := newTestService()

	job := JobPosting{
		ID:              42,
		Title:           "Backend Engineer",
		Company:         "Acme",
		Location:        "Remote",
		EmploymentType:  "Full-time",
		ExperienceLevel: "Senior",
		SalaryRange:     "$150k-$180k",
		Skills:          []string{"Go", "Redis"},
		Description:     "Build services.",
	}

	item, err := svc.IngestJob(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID != "job_42" {
		t.Errorf("id = %q, want job_42", item.ID)
	}
	if item.Type != domain.TypeJob {
		t.Errorf("type = %q, want job", item.Type)
	}
	if item.Owner != "1" {
		t.Errorf("owner = %q, want 1", item.Owner)
	}
	if repo.got.ID != "job_42" {
		t.Errorf("stored id = %q", repo.got.ID)
	}
	for _, want := range []string{
		"Job Title: Backend Engineer", "Company: Acme", "Skills: Go, Redis",
		"Description: Build services.",
	} {
		if !strings.Contains(embed.gotText, want) {
			t.Errorf("embedded text missing %q:\n%s", want, embed.gotText)
		}
	}
}

func TestIngestProfile(t *testing.T) {
	svc, repo, embed := newTestService()

	profile := Profile{
		Name:            "Dana Example",
		Title:           "Data Scientist",
		ExperienceYears: 7,
		Skills:          []string{"Python", "SQL"},
		Education: []Education{
			{Degree: "MSc", School: "MIT"},
			{Degree: "BSc", School: "UCLA"},
		},
		LinkedInURL: "https://linkedin.com/in/dana",
	}

	item, err := svc.IngestProfile(context.Background(), profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID != "https://linkedin.com/in/dana" {
		t.Errorf("id = %q, want the linkedin url", item.ID)
	}
	if repo.got.Type != domain.TypeProfile {
		t.Errorf("stored type = %q, want profile", repo.got.Type)
	}
	for _, want := range []string{
		"Name: Dana Example", "Experience: 7 years",
		"Education: MSc from MIT; BSc from UCLA",
	} {
		if !strings.Contains(embed.gotText, want) {
			t.Errorf("embedded text missing %q:\n%s", want, embed.gotText)
		}
	}
}

func TestIngestProfile_NoLinkedInURL(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.IngestProfile(context.Background(), Profile{Name: "Anonymous"})
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestIngestDocument_Empty(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.IngestDocument(context.Background(), "doc-1", "   ", domain.TypeJob)
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestIngestDocument_EmbedError(t *testing.T) {
	svc, repo, embed := newTestService()
	embed.err = domain.ErrEmbeddingProviderError

	_, err := svc.IngestDocument(context.Background(), "doc-1", "text", domain.TypeJob)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want wrapped embedding error", err)
	}
	if repo.got.ID != "" {
		t.Error("store must not be written when embedding fails")
	}
}

func TestIngestDocument_StoreError(t *testing.T) {
	svc, repo, _ := newTestService()
	cause := errors.New("store down")
	repo.err = cause

	_, err := svc.IngestDocument(context.Background(), "doc-1", "text", domain.TypeJob)
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestFormatJobContext_MissingFields(t *testing.T) {
	got := FormatJobContext(JobPosting{Title: "Engineer"})
	for _, want := range []string{"Job Title: Engineer", "Company: N/A", "Salary Range: N/A"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
