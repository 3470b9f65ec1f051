package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
)

// Service embeds documents and persists them as retrievable content.
// Both the embedding call and the store write are hard dependencies here;
// ingestion has no degraded mode.
type Service struct {
	repo  Repository
	embed Embedder
	owner string
}

// New creates an ingestion service. owner tags every stored item.
func New(repo Repository, embed Embedder, owner string) *Service {
	return &Service{repo: repo, embed: embed, owner: owner}
}

// IngestJob formats, embeds, and stores one job posting. The stored id is
// "job_<id>" so job rows stay addressable by their source identifier.
func (s *Service) IngestJob(ctx context.Context, job JobPosting) (domain.ContentItem, error) {
	id := fmt.Sprintf("job_%d", job.ID)
	return s.IngestDocument(ctx, id, FormatJobContext(job), domain.TypeJob)
}

// IngestProfile formats, embeds, and stores one candidate profile, keyed
// by the profile's LinkedIn URL.
func (s *Service) IngestProfile(ctx context.Context, profile Profile) (domain.ContentItem, error) {
	id := profile.LinkedInURL
	if id == "" {
		return domain.ContentItem{}, fmt.Errorf("profile %q: %w", profile.Name, domain.ErrEmptyDocument)
	}
	return s.IngestDocument(ctx, id, FormatProfileContext(profile), domain.TypeProfile)
}

// IngestDocument embeds arbitrary text and stores it under the given id
// and type.
func (s *Service) IngestDocument(
	ctx context.Context, id, text string, ct domain.ContentType,
) (domain.ContentItem, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ContentItem{}, fmt.Errorf("document %s: %w", id, domain.ErrEmptyDocument)
	}

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("embed document %s: %w", id, err)
	}

	item := domain.ContentItem{
		ID:        id,
		Embedding: emb.Embedding,
		Text:      text,
		Type:      ct,
		Owner:     s.owner,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return domain.ContentItem{}, fmt.Errorf("store document %s: %w", id, err)
	}

	logger.FromContext(ctx).Info("document ingested",
		zap.String("id", id),
		zap.String("type", string(ct)),
		zap.Int("text_len", len(text)),
		zap.Int("tokens", emb.TotalTokens),
	)
	return item, nil
}
