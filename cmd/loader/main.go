// Command loader bulk-ingests job postings and candidate profiles from JSON
// files: each record is formatted, embedded, and stored in the vector index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/config"
	"github.com/kailas-cloud/talentrag/internal/db/redis"
	"github.com/kailas-cloud/talentrag/internal/logger"
	"github.com/kailas-cloud/talentrag/internal/metrics"
	budgetrepo "github.com/kailas-cloud/talentrag/internal/repository/budget"
	"github.com/kailas-cloud/talentrag/internal/repository/content"
	"github.com/kailas-cloud/talentrag/internal/transport/openai"
	"github.com/kailas-cloud/talentrag/internal/usecase/batch"
	"github.com/kailas-cloud/talentrag/internal/usecase/embedding"
	"github.com/kailas-cloud/talentrag/internal/usecase/ingest"
)

func main() {
	jobsFile := flag.String("jobs", "", "path to a JSON array of job postings")
	profilesFile := flag.String("profiles", "", "path to a JSON array of candidate profiles")
	flag.Parse()

	if *jobsFile == "" && *profilesFile == "" {
		fmt.Fprintln(os.Stderr, "usage: loader -jobs jobs.json -profiles profiles.json")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		log.Fatal("failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readinessTimeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readinessTimeout); err != nil {
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

	budget := embedding.NewBudgetTracker(
		cfg.Embedding.DailyBudget,
		cfg.Embedding.MonthlyBudget,
		embedding.BudgetAction(cfg.Embedding.BudgetAction),
		log,
	).WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))

	repo := content.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
		WithHNSW(content.HNSWConfig{
			M:           cfg.Pipeline.HNSWM,
			EFConstruct: cfg.Pipeline.HNSWEFConstruct,
		})
	if err := repo.EnsureIndex(ctx); err != nil {
		log.Fatal("failed to ensure index", zap.Error(err))
	}

	ingestSvc := ingest.New(repo, embedding.NewBudgetedEmbedder(embedder, budget, log), cfg.Storage.Owner)
	batchSvc := batch.New(ingestSvc).WithMaxBatchSize(10000)

	var loaded, failed int
	tally := func(results []batch.Result) {
		for _, r := range results {
			if r.Err != nil {
				log.Warn("failed to ingest item", zap.String("id", r.ID), zap.Error(r.Err))
				failed++
				continue
			}
			loaded++
		}
	}

	if *jobsFile != "" {
		var jobs []ingest.JobPosting
		if err := readJSON(*jobsFile, &jobs); err != nil {
			log.Fatal("failed to read jobs file", zap.String("path", *jobsFile), zap.Error(err))
		}
		tally(batchSvc.Jobs(ctx, jobs))
	}

	if *profilesFile != "" {
		var profiles []ingest.Profile
		if err := readJSON(*profilesFile, &profiles); err != nil {
			log.Fatal("failed to read profiles file", zap.String("path", *profilesFile), zap.Error(err))
		}
		tally(batchSvc.Profiles(ctx, profiles))
	}

	log.Info("load complete", zap.Int("loaded", loaded), zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
