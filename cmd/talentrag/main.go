// Command talentrag serves the job-matching RAG API: query classification,
// vector retrieval over Redis, LLM reranking, and grounded answering.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/config"
	"github.com/kailas-cloud/talentrag/internal/db/redis"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
	budgetrepo "github.com/kailas-cloud/talentrag/internal/repository/budget"
	"github.com/kailas-cloud/talentrag/internal/repository/content"
	"github.com/kailas-cloud/talentrag/internal/transport/chihttp"
	"github.com/kailas-cloud/talentrag/internal/transport/openai"
	"github.com/kailas-cloud/talentrag/internal/usecase/chat"
	"github.com/kailas-cloud/talentrag/internal/usecase/classify"
	"github.com/kailas-cloud/talentrag/internal/usecase/embedding"
	"github.com/kailas-cloud/talentrag/internal/usecase/health"
	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
	"github.com/kailas-cloud/talentrag/internal/usecase/rerank"
	"github.com/kailas-cloud/talentrag/internal/usecase/resume"
	"github.com/kailas-cloud/talentrag/internal/usecase/retrieve"
	"github.com/kailas-cloud/talentrag/internal/usecase/usage"
	"github.com/kailas-cloud/talentrag/internal/usecase/width"
	"github.com/kailas-cloud/talentrag/internal/version"
)

func main() {
	// Load configuration based on ENV (local, dev, prod)
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting talentrag",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("port", cfg.HTTP.Port),
	)

	// Vector store
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
	log.Info("connected to store", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.Register()

	// Providers
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

	// Token budget enforcement around the embedder. Counters persist in
	// Redis so restarts keep the spend.
	budget := embedding.NewBudgetTracker(
		cfg.Embedding.DailyBudget,
		cfg.Embedding.MonthlyBudget,
		embedding.BudgetAction(cfg.Embedding.BudgetAction),
		log,
	).WithStore(context.Background(), budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	budgetedEmbedder := embedding.NewBudgetedEmbedder(embedder, budget, log)

	// Repository
	repo := content.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
		WithHNSW(content.HNSWConfig{
			M:           cfg.Pipeline.HNSWM,
			EFConstruct: cfg.Pipeline.HNSWEFConstruct,
		})
	if err := repo.EnsureIndex(context.Background()); err != nil {
		log.Fatal("failed to ensure index", zap.Error(err))
	}

	// Use case services
	classifySvc := classify.New(llm)
	widthSvc := width.New(llm)
	retrieveSvc := retrieve.New(repo).WithFloor(cfg.Pipeline.SimilarityFloor)
	rerankSvc := rerank.New(llm).WithTruncation(cfg.Pipeline.TruncateChars)
	chatSvc := chat.New(classifySvc, widthSvc, budgetedEmbedder, retrieveSvc, rerankSvc, llm).
		WithAnswerModel(cfg.LLM.AnswerModel).
		WithTopN(cfg.Pipeline.RerankTopN)
	ingestSvc := ingest.New(repo, budgetedEmbedder, cfg.Storage.Owner)
	resumeSvc := resume.New(llm).
		WithModel(cfg.LLM.AnswerModel).
		WithIngestor(ingestSvc)
	healthSvc := health.New(store, embedder, llm)
	usageSvc := usage.New(budget)

	srv := chihttp.NewServer(chatSvc, resumeSvc, ingestSvc, healthSvc, usageSvc, log)

	r := chi.NewRouter()
	r.Use(chihttp.JSONRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(chihttp.RequestLogger(log))
	r.Use(chihttp.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	srv.Routes(r)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("stopped")
}
