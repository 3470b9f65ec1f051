package domain

import "context"

// Step names the pipeline operations that issue LLM calls. Used for
// metrics labels and degradation logging.
type Step string

const (
	StepClassify    Step = "classify"
	StepWidth       Step = "width"
	StepRerank      Step = "rerank"
	StepAnswer      Step = "answer"
	StepParseResume Step = "parse_resume"
)

// Completion is a single chat-completion call.
type Completion struct {
	// Step names the issuing pipeline operation.
	Step Step
	// Model overrides the provider's default model when non-empty.
	Model       string
	System      string
	User        string
	Temperature float32
}

// Completer is the shared chat-completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}
