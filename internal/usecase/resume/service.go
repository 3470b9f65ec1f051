package resume

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
)

// parseTemperature keeps extraction deterministic-ish without going
// fully greedy.
const parseTemperature = 0.3

const systemPrompt = `You are a resume parser. Extract and format the key information from HTML content (from LinkedIn profiles or resumes) into a clean, well-structured format.

Focus on extracting:
- Name
- Contact information (email, phone, location)
- Professional summary/headline
- Work experience (company, title, dates, responsibilities)
- Education (school, degree, dates)
- Skills
- Certifications (if any)
- Projects (if any)

Format the output as clean markdown with clear sections and bullet points. Remove any HTML tags, navigation elements, or extraneous information. Make it concise and professional.`

// Service turns raw resume or LinkedIn profile HTML into clean markdown
// and optionally stores the result as searchable profile content. The
// parsing call is fatal: there is no useful fallback for it.
type Service struct {
	llm    Completer
	ingest Ingestor
	model  string
}

// New creates a resume parsing service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// WithModel overrides the model for the parsing call.
func (s *Service) WithModel(model string) *Service {
	s.model = model
	return s
}

// WithIngestor enables storing parsed resumes via the given ingestor.
func (s *Service) WithIngestor(ing Ingestor) *Service {
	s.ingest = ing
	return s
}

// Parse extracts a markdown resume from raw HTML.
func (s *Service) Parse(ctx context.Context, htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", domain.ErrEmptyDocument
	}

	parsed, err := s.llm.Complete(ctx, domain.Completion{
		Step:        domain.StepParseResume,
		Model:       s.model,
		System:      systemPrompt,
		User:        "Please parse and format this resume/profile HTML:\n\n" + htmlContent,
		Temperature: parseTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("parse resume: %w", err)
	}

	logger.FromContext(ctx).Info("resume parsed",
		zap.Int("html_len", len(htmlContent)),
		zap.Int("parsed_len", len(parsed)),
	)
	return parsed, nil
}

// ParseAndStore parses HTML and stores the markdown as profile content
// under the given id. Requires an ingestor.
func (s *Service) ParseAndStore(ctx context.Context, id, htmlContent string) (string, error) {
	if s.ingest == nil {
		return "", fmt.Errorf("resume storage not configured")
	}

	parsed, err := s.Parse(ctx, htmlContent)
	if err != nil {
		return "", err
	}
	if _, err := s.ingest.IngestDocument(ctx, id, parsed, domain.TypeProfile); err != nil {
		return "", fmt.Errorf("store parsed resume %s: %w", id, err)
	}
	return parsed, nil
}
