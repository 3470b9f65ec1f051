package talentrag

import (
	"context"
	"time"

	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
)

// ContentType distinguishes stored document kinds.
type ContentType string

// Content type constants.
const (
	TypeJob     ContentType = "job"
	TypeProfile ContentType = "profile"
)

// JobPosting is a job record for ingestion.
type JobPosting = ingest.JobPosting

// Profile is a candidate record for ingestion.
type Profile = ingest.Profile

// Education is one entry in a profile's education history.
type Education = ingest.Education

// Answer is the pipeline's response to a query.
type Answer struct {
	Response         string
	ContextItemsUsed int
	DocumentTypes    []ContentType
	Width            int
}

// IngestedItem identifies stored content.
type IngestedItem struct {
	ID   string
	Type ContentType
}

// BatchResult is the outcome of one item in a batch ingest.
type BatchResult struct {
	ID  string
	OK  bool
	Err error
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains embedding token consumption for a time period.
// TokenLimit 0 means unlimited; Remaining is -1 in that case.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	TokensUsed  int64
	TokenLimit  int64
	Remaining   int64
	Exhausted   bool
}

// Embedder converts text to vector embeddings. Lets callers bring a
// provider other than OpenAI.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
