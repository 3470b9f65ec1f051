package resume

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Completer issues the resume-parsing chat call.
type Completer interface {
	Complete(ctx context.Context, c domain.Completion) (string, error)
}

// Ingestor stores parsed resumes as retrievable profile content.
type Ingestor interface {
	IngestDocument(ctx context.Context, id, text string, ct domain.ContentType) (domain.ContentItem, error)
}
