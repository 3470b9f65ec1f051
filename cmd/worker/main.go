// Command worker runs the async job relay: it consumes job questions from
// NATS, answers them through the query pipeline, and publishes responses.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/config"
	"github.com/kailas-cloud/talentrag/internal/db/redis"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
	"github.com/kailas-cloud/talentrag/internal/relay"
	budgetrepo "github.com/kailas-cloud/talentrag/internal/repository/budget"
	"github.com/kailas-cloud/talentrag/internal/repository/content"
	"github.com/kailas-cloud/talentrag/internal/transport/openai"
	"github.com/kailas-cloud/talentrag/internal/usecase/chat"
	"github.com/kailas-cloud/talentrag/internal/usecase/classify"
	"github.com/kailas-cloud/talentrag/internal/usecase/embedding"
	"github.com/kailas-cloud/talentrag/internal/usecase/rerank"
	"github.com/kailas-cloud/talentrag/internal/usecase/retrieve"
	"github.com/kailas-cloud/talentrag/internal/usecase/width"
	"github.com/kailas-cloud/talentrag/internal/version"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting relay worker",
		zap.String("build", version.String()),
		zap.String("env", env),
	)

	if cfg.Relay.URL == "" {
		log.Fatal("relay.url is required for the worker")
	}

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		log.Fatal("failed to create store", zap.Error(err))
	}
	defer store.Close()

	readinessTimeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(context.Background(), readinessTimeout); err != nil {
		log.Fatal("store not ready", zap.Error(err))
	}

	metrics.Register()

	embedder := openai.NewEmbedder(&openai.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     log,
	})
	llm := openai.NewLLM(&openai.LLMConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  log,
	})

	budget := embedding.NewBudgetTracker(
		cfg.Embedding.DailyBudget,
		cfg.Embedding.MonthlyBudget,
		embedding.BudgetAction(cfg.Embedding.BudgetAction),
		log,
	).WithStore(context.Background(), budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))

	repo := content.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions)

	chatSvc := chat.New(
		classify.New(llm),
		width.New(llm),
		embedding.NewBudgetedEmbedder(embedder, budget, log),
		retrieve.New(repo).WithFloor(cfg.Pipeline.SimilarityFloor),
		rerank.New(llm).WithTruncation(cfg.Pipeline.TruncateChars),
		llm,
	).
		WithAnswerModel(cfg.LLM.AnswerModel).
		WithTopN(cfg.Pipeline.RerankTopN)

	conn, err := relay.Connect(cfg.Relay.URL)
	if err != nil {
		log.Fatal("failed to connect to nats", zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := relay.New(conn, chatSvc, cfg.Relay.RequestSubject, cfg.Relay.ResponseSubject, log)
	if err := svc.Run(ctx); err != nil {
		log.Fatal("relay failed", zap.Error(err))
	}
	log.Info("worker stopped")
}
