package domain

import (
	"fmt"
	"strings"
)

// ContentType identifies what kind of document a content item holds.
type ContentType string

const (
	// TypeJob is a job posting.
	TypeJob ContentType = "job"
	// TypeProfile is a candidate profile.
	TypeProfile ContentType = "profile"
)

// ParseContentType parses a content type string (trimmed, case-insensitive).
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeJob:
		return TypeJob, nil
	case TypeProfile:
		return TypeProfile, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// AllTypes returns the full retrieval scope: every known content type.
// Callers must not mutate the returned slice.
func AllTypes() []ContentType {
	return []ContentType{TypeJob, TypeProfile}
}

// Classification labels an LLM classifier may emit. "both" and anything
// unrecognized expand to the full type set (fail-open, never fail-closed).
const (
	LabelJob     = "job"
	LabelProfile = "profile"
	LabelBoth    = "both"
)

// TypesForLabel maps a raw classifier label to the type set used for retrieval.
// The returned set is never empty.
func TypesForLabel(label string) []ContentType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case LabelJob:
		return []ContentType{TypeJob}
	case LabelProfile:
		return []ContentType{TypeProfile}
	default:
		return AllTypes()
	}
}

// ContentItem is a stored document plus its query-time similarity score.
// Items are immutable once stored; Similarity is attached during retrieval
// and never persisted.
type ContentItem struct {
	ID        string
	Embedding []float32
	Text      string
	Type      ContentType
	Owner     string

	// Similarity is the store-computed cosine similarity for the current
	// query. Only meaningful on items returned from a search.
	Similarity float64
}

// RankedResult is a ContentItem with its rerank score. The score is a
// per-batch total order key (higher = more relevant) and must never be
// compared across retrieval batches.
type RankedResult struct {
	ContentItem
	RerankScore int
}

// NoContextSentinel is substituted for the prompt context when retrieval
// yields nothing above the similarity floor. The answering call still runs.
const NoContextSentinel = "No relevant context found."
