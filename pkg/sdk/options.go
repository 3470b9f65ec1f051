package talentrag

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	openAIKey     string
	openAIBaseURL string
	embedder      Embedder

	chatModel      string
	answerModel    string
	embeddingModel string
	vectorDim      int

	keyPrefix       string
	owner           string
	hnswM           int
	hnswEFConstruct int

	similarityFloor float64
	rerankTopN      int
	truncateChars   int
	maxBatchSize    int

	dailyBudget   int64
	monthlyBudget int64
	rejectOnSpent bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI sets the API key used for both embeddings and chat completions.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
	})
}

// WithOpenAIBaseURL points the provider at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = url
	})
}

// WithEmbedder sets a custom text embedding provider instead of OpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithModels sets the chat-completion models. chatModel drives
// classification, sizing, and reranking; answerModel drives answering and
// resume parsing. Defaults: gpt-4o-mini and gpt-4o.
func WithModels(chatModel, answerModel string) Option {
	return optionFunc(func(c *clientConfig) {
		c.chatModel = chatModel
		c.answerModel = answerModel
	})
}

// WithEmbeddingModel sets the embedding model and vector dimension.
// Defaults: text-embedding-3-small with 1536 dimensions.
func WithEmbeddingModel(model string, dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingModel = model
		c.vectorDim = dim
	})
}

// WithKeyPrefix namespaces stored keys. Default: "talentrag:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithOwner sets the owner id attached to ingested content. Default: "1".
func WithOwner(owner string) Option {
	return optionFunc(func(c *clientConfig) {
		c.owner = owner
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithSimilarityFloor drops retrieved items at or below this cosine
// similarity. Default: 0.3.
func WithSimilarityFloor(floor float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.similarityFloor = floor
	})
}

// WithRerankTopN caps how many reranked items reach the answer prompt.
// Default: 5.
func WithRerankTopN(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rerankTopN = n
	})
}

// WithTruncation sets the per-item character budget for rerank prompts.
// Default: 500.
func WithTruncation(chars int) Option {
	return optionFunc(func(c *clientConfig) {
		c.truncateChars = chars
	})
}

// WithMaxBatchSize sets the maximum number of items per batch ingest.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithTokenBudget caps embedding token spend. Zero means unlimited for
// that period. When reject is true, requests over budget fail with
// ErrEmbeddingQuotaExceeded; otherwise they are logged and allowed.
func WithTokenBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyBudget = daily
		c.monthlyBudget = monthly
		c.rejectOnSpent = reject
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
