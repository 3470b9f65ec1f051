package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/logger"
)

// DefaultRerankTopN bounds how many ranked items reach the prompt.
const DefaultRerankTopN = 5

const answerPromptTemplate = `You are an expert job matching assistant. Use the following context
about jobs and candidate profiles to answer questions:

%s

Provide helpful, accurate information based on the context provided.
If the context does not contain the answer, say so instead of guessing.`

// Answer is the pipeline result for one query.
type Answer struct {
	Response         string
	ContextItemsUsed int
	DocumentTypes    []domain.ContentType
	Width            int
}

// Service runs the query pipeline: classify and size the retrieval, embed
// the query, fetch and rerank context, then answer grounded in it. The
// pipeline owns no state; each call is a pure request transformation.
type Service struct {
	classifier Classifier
	widths     WidthSelector
	embedder   Embedder
	retriever  Retriever
	reranker   Reranker
	llm        Completer

	answerModel string
	topN        int
}

// New creates the chat pipeline service.
func New(
	classifier Classifier,
	widths WidthSelector,
	embedder Embedder,
	retriever Retriever,
	reranker Reranker,
	llm Completer,
) *Service {
	return &Service{
		classifier: classifier,
		widths:     widths,
		embedder:   embedder,
		retriever:  retriever,
		reranker:   reranker,
		llm:        llm,
		topN:       DefaultRerankTopN,
	}
}

// WithAnswerModel overrides the model for the final answering call.
func (s *Service) WithAnswerModel(model string) *Service {
	s.answerModel = model
	return s
}

// WithTopN overrides how many reranked items reach the prompt.
func (s *Service) WithTopN(n int) *Service {
	s.topN = n
	return s
}

// HandleQuery answers a free-text query grounded in retrieved context.
// Classification and width selection run concurrently; they degrade to
// defaults on failure. Embedding, retrieval, and the answering call are
// fatal: their failure aborts the request.
func (s *Service) HandleQuery(ctx context.Context, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, domain.ErrEmptyQuery
	}

	types, w := s.scopeAndWidth(ctx, query)

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return Answer{}, fmt.Errorf("embed query: %w", err)
	}

	items, err := s.retriever.Retrieve(ctx, domain.NewRetrievalRequest(emb.Embedding, types, w))
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	ranked := s.reranker.Rerank(ctx, query, items, s.topN)
	contextText := composeContext(ranked)

	response, err := s.llm.Complete(ctx, domain.Completion{
		Step:   domain.StepAnswer,
		Model:  s.answerModel,
		System: fmt.Sprintf(answerPromptTemplate, contextText),
		User:   query,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("answer query: %w", err)
	}

	logger.FromContext(ctx).Info("query answered",
		zap.Int("context_items", len(ranked)),
		zap.Int("width", w),
		zap.Int("retrieved", len(items)),
	)

	return Answer{
		Response:         response,
		ContextItemsUsed: len(ranked),
		DocumentTypes:    types,
		Width:            w,
	}, nil
}

// scopeAndWidth runs classification and width selection concurrently;
// neither depends on the other and both absorb their own failures.
func (s *Service) scopeAndWidth(ctx context.Context, query string) ([]domain.ContentType, int) {
	typesCh := make(chan []domain.ContentType, 1)
	go func() {
		typesCh <- s.classifier.Classify(ctx, query).Types
	}()

	w := s.widths.Select(ctx, query).Width
	return <-typesCh, w
}

// composeContext joins ranked item texts with blank lines, or substitutes
// the no-context sentinel so the answering call still runs on an empty batch.
func composeContext(ranked []domain.RankedResult) string {
	if len(ranked) == 0 {
		return domain.NoContextSentinel
	}
	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = r.Text
	}
	return strings.Join(texts, "\n\n")
}
