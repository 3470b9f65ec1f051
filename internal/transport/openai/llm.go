package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/domain"
	"github.com/kailas-cloud/talentrag/internal/metrics"
)

// Compile-time check: LLM implements domain.Completer.
var _ domain.Completer = (*LLM)(nil)

// LLM is the chat-completion client shared by all pipeline operations
// (classification, sizing, reranking, answering, resume parsing).
type LLM struct {
	client       *openai.Client
	defaultModel string
	timeout      time.Duration
	logger       *zap.Logger
}

// LLMConfig holds chat-completion provider settings.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewLLM creates an OpenAI-compatible chat-completion client.
func NewLLM(cfg *LLMConfig) *LLM {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &LLM{
		client:       openai.NewClientWithConfig(clientCfg),
		defaultModel: cfg.Model,
		timeout:      timeout,
		logger:       cfg.Logger,
	}
}

// Complete issues a single chat-completion call and returns the assistant
// message text. Every call is bounded by the configured timeout; callers
// decide whether a failure is fatal or degradable.
func (l *LLM) Complete(ctx context.Context, c domain.Completion) (string, error) {
	model := c.Model
	if model == "" {
		model = l.defaultModel
	}
	op := string(c.Step)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: c.User,
	})

	start := time.Now()

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.Temperature,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(op, model, "error").Inc()
		return "", parseAPIError(op, err, domain.ErrLLMProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(op, model, "error").Inc()
		return "", fmt.Errorf("%s: empty completion response: %w", op, domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(op, model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(op, model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(op, model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(op, model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies the chat provider is reachable.
func (l *LLM) HealthCheck(ctx context.Context) error {
	if _, err := l.client.ListModels(ctx); err != nil {
		return parseAPIError("health", err, domain.ErrLLMProviderError)
	}
	return nil
}
