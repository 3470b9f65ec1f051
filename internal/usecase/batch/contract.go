package batch

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
)

// Ingestor embeds and stores a single record.
type Ingestor interface {
	IngestJob(ctx context.Context, job ingest.JobPosting) (domain.ContentItem, error)
	IngestProfile(ctx context.Context, profile ingest.Profile) (domain.ContentItem, error)
}
