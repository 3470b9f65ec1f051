// Package batch ingests job and profile records in bulk with per-item
// error reporting.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Result reports the outcome for one item. Err is nil on success.
type Result struct {
	ID  string
	Err error
}

// Service handles bulk ingestion. Items are processed one-by-one
// (embeddings are per-record); a spent token budget cascades to the
// remaining items instead of burning one failed call each.
type Service struct {
	ingestor     Ingestor
	maxBatchSize int
}

// New creates a batch service.
func New(ingestor Ingestor) *Service {
	return &Service{ingestor: ingestor, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Jobs ingests job postings in batch.
func (s *Service) Jobs(ctx context.Context, jobs []ingest.JobPosting) []Result {
	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = fmt.Sprintf("job_%d", job.ID)
	}
	return s.run(ids, func(i int) error {
		_, err := s.ingestor.IngestJob(ctx, jobs[i])
		return err
	})
}

// Profiles ingests candidate profiles in batch.
func (s *Service) Profiles(ctx context.Context, profiles []ingest.Profile) []Result {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.LinkedInURL
	}
	return s.run(ids, func(i int) error {
		_, err := s.ingestor.IngestProfile(ctx, profiles[i])
		return err
	})
}

// run applies ingestOne to each item, cascading quota errors to the
// remaining items.
func (s *Service) run(ids []string, ingestOne func(i int) error) []Result {
	results := make([]Result, len(ids))

	if len(ids) > s.maxBatchSize {
		err := fmt.Errorf("batch size %d exceeds %d", len(ids), s.maxBatchSize)
		for i, id := range ids {
			results[i] = Result{ID: id, Err: err}
		}
		return results
	}

	for i, id := range ids {
		err := ingestOne(i)
		results[i] = Result{ID: id, Err: err}
		if err != nil && errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
			for j := i + 1; j < len(ids); j++ {
				results[j] = Result{ID: ids[j], Err: err}
			}
			return results
		}
	}

	return results
}
