package domain

// Retrieval width bounds. The width selector may return anything; these
// bounds cap cost and latency regardless of what the sizing call says.
const (
	MinWidth     = 3
	MaxWidth     = 20
	DefaultWidth = 10
)

// ClampWidth forces a requested retrieval width into [MinWidth, MaxWidth].
func ClampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

// RetrievalRequest is the input to a vector store lookup, derived from a
// single query. Width is clamped at construction.
type RetrievalRequest struct {
	QueryEmbedding []float32
	Types          []ContentType
	Width          int
}

// NewRetrievalRequest builds a retrieval request with a clamped width.
// An empty type set expands to the full retrieval scope.
func NewRetrievalRequest(embedding []float32, types []ContentType, width int) RetrievalRequest {
	if len(types) == 0 {
		types = AllTypes()
	}
	return RetrievalRequest{
		QueryEmbedding: embedding,
		Types:          types,
		Width:          ClampWidth(width),
	}
}
