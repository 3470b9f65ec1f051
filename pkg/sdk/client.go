package talentrag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentrag/internal/db"
	dbRedis "github.com/kailas-cloud/talentrag/internal/db/redis"
	"github.com/kailas-cloud/talentrag/internal/domain"
	budgetrepo "github.com/kailas-cloud/talentrag/internal/repository/budget"
	contentrepo "github.com/kailas-cloud/talentrag/internal/repository/content"
	"github.com/kailas-cloud/talentrag/internal/transport/openai"
	batchuc "github.com/kailas-cloud/talentrag/internal/usecase/batch"
	chatuc "github.com/kailas-cloud/talentrag/internal/usecase/chat"
	classifyuc "github.com/kailas-cloud/talentrag/internal/usecase/classify"
	embeddinguc "github.com/kailas-cloud/talentrag/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/talentrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentrag/internal/usecase/ingest"
	rerankuc "github.com/kailas-cloud/talentrag/internal/usecase/rerank"
	resumeuc "github.com/kailas-cloud/talentrag/internal/usecase/resume"
	retrieveuc "github.com/kailas-cloud/talentrag/internal/usecase/retrieve"
	usageuc "github.com/kailas-cloud/talentrag/internal/usecase/usage"
	widthuc "github.com/kailas-cloud/talentrag/internal/usecase/width"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the pipeline.
type chatUseCase interface {
	HandleQuery(ctx context.Context, query string) (chatuc.Answer, error)
}

type resumeUseCase interface {
	Parse(ctx context.Context, htmlContent string) (string, error)
	ParseAndStore(ctx context.Context, id, htmlContent string) (string, error)
}

type ingestUseCase interface {
	IngestJob(ctx context.Context, job ingestuc.JobPosting) (domain.ContentItem, error)
	IngestProfile(ctx context.Context, profile ingestuc.Profile) (domain.ContentItem, error)
	IngestDocument(ctx context.Context, id, text string, ct domain.ContentType) (domain.ContentItem, error)
}

type batchUseCase interface {
	Jobs(ctx context.Context, jobs []ingestuc.JobPosting) []batchuc.Result
	Profiles(ctx context.Context, profiles []ingestuc.Profile) []batchuc.Result
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type usageUseCase interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}

// Client is the talentrag SDK entry point.
type Client struct {
	store     db.Store
	chatSvc   chatUseCase
	resumeSvc resumeUseCase
	ingestSvc ingestUseCase
	batchSvc  batchUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a talentrag Client and connects to the database.
// The provided context is used for the readiness check and index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		chatModel:       "gpt-4o-mini",
		answerModel:     "gpt-4o",
		embeddingModel:  "text-embedding-3-small",
		vectorDim:       1536,
		keyPrefix:       "talentrag:",
		owner:           "1",
		similarityFloor: retrieveuc.DefaultSimilarityFloor,
		rerankTopN:      chatuc.DefaultRerankTopN,
		truncateChars:   rerankuc.DefaultTruncateChars,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("talentrag: database address required (use WithRedis)")
	}
	if cfg.openAIKey == "" {
		return nil, errors.New("talentrag: API key required (use WithOpenAI)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("talentrag: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("talentrag: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	log := zap.NewNop()

	llm := openai.NewLLM(&openai.LLMConfig{
		APIKey:  cfg.openAIKey,
		BaseURL: cfg.openAIBaseURL,
		Model:   cfg.chatModel,
		Logger:  log,
	})

	var emb domain.Embedder
	var embChecker healthuc.ProviderChecker
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	} else {
		openaiEmb := openai.NewEmbedder(&openai.EmbedderConfig{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.vectorDim,
			Logger:     log,
		})
		emb = openaiEmb
		embChecker = openaiEmb
	}

	var budget *embeddinguc.BudgetTracker
	if cfg.dailyBudget > 0 || cfg.monthlyBudget > 0 {
		action := embeddinguc.BudgetActionWarn
		if cfg.rejectOnSpent {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(cfg.dailyBudget, cfg.monthlyBudget, action, log).
			WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		emb = embeddinguc.NewBudgetedEmbedder(emb, budget, log)
	}

	repo := contentrepo.New(store, cfg.keyPrefix, cfg.vectorDim)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		repo = repo.WithHNSW(contentrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := repo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("talentrag: ensure index: %w", err)
	}

	chatSvc := chatuc.New(
		classifyuc.New(llm),
		widthuc.New(llm),
		emb,
		retrieveuc.New(repo).WithFloor(cfg.similarityFloor),
		rerankuc.New(llm).WithTruncation(cfg.truncateChars),
		llm,
	).
		WithAnswerModel(cfg.answerModel).
		WithTopN(cfg.rerankTopN)

	ingestSvc := ingestuc.New(repo, emb, cfg.owner)
	batchSvc := batchuc.New(ingestSvc)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}
	resumeSvc := resumeuc.New(llm).
		WithModel(cfg.answerModel).
		WithIngestor(ingestSvc)

	usageSvc := usageuc.New(nil) // unlimited mode unless a budget is configured
	if budget != nil {
		usageSvc = usageuc.New(budget)
	}

	return &Client{
		store:     store,
		chatSvc:   chatSvc,
		resumeSvc: resumeSvc,
		ingestSvc: ingestSvc,
		batchSvc:  batchSvc,
		healthSvc: healthuc.New(store, embChecker, llm),
		usageSvc:  usageSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Query answers a free-text question grounded in stored jobs and profiles.
func (c *Client) Query(ctx context.Context, message string) (_ Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	ans, err := c.chatSvc.HandleQuery(ctx, message)
	if err != nil {
		return Answer{}, fmt.Errorf("query: %w", err)
	}

	types := make([]ContentType, len(ans.DocumentTypes))
	for i, t := range ans.DocumentTypes {
		types[i] = ContentType(t)
	}
	return Answer{
		Response:         ans.Response,
		ContextItemsUsed: ans.ContextItemsUsed,
		DocumentTypes:    types,
		Width:            ans.Width,
	}, nil
}

// ParseResume converts resume HTML into clean markdown.
func (c *Client) ParseResume(ctx context.Context, htmlContent string) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("parse_resume", start, err) }()

	out, err := c.resumeSvc.Parse(ctx, htmlContent)
	if err != nil {
		return "", fmt.Errorf("parse resume: %w", err)
	}
	return out, nil
}

// ParseAndStoreResume parses resume HTML and stores the result as
// retrievable profile content under the given id.
func (c *Client) ParseAndStoreResume(ctx context.Context, id, htmlContent string) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("parse_resume", start, err) }()

	out, err := c.resumeSvc.ParseAndStore(ctx, id, htmlContent)
	if err != nil {
		return "", fmt.Errorf("parse resume: %w", err)
	}
	return out, nil
}

// IngestJob embeds and stores a job posting.
func (c *Client) IngestJob(ctx context.Context, job JobPosting) (_ IngestedItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_job", start, err) }()

	item, err := c.ingestSvc.IngestJob(ctx, job)
	if err != nil {
		return IngestedItem{}, fmt.Errorf("ingest job: %w", err)
	}
	return IngestedItem{ID: item.ID, Type: ContentType(item.Type)}, nil
}

// IngestProfile embeds and stores a candidate profile.
func (c *Client) IngestProfile(ctx context.Context, profile Profile) (_ IngestedItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_profile", start, err) }()

	item, err := c.ingestSvc.IngestProfile(ctx, profile)
	if err != nil {
		return IngestedItem{}, fmt.Errorf("ingest profile: %w", err)
	}
	return IngestedItem{ID: item.ID, Type: ContentType(item.Type)}, nil
}

// IngestDocument embeds and stores raw text under an id.
func (c *Client) IngestDocument(ctx context.Context, id, text string, ct ContentType) (_ IngestedItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest_document", start, err) }()

	dct, err := domain.ParseContentType(string(ct))
	if err != nil {
		return IngestedItem{}, fmt.Errorf("ingest document: %w", err)
	}
	item, err := c.ingestSvc.IngestDocument(ctx, id, text, dct)
	if err != nil {
		return IngestedItem{}, fmt.Errorf("ingest document: %w", err)
	}
	return IngestedItem{ID: item.ID, Type: ContentType(item.Type)}, nil
}

// BatchIngestJobs ingests job postings with per-item outcomes.
func (c *Client) BatchIngestJobs(ctx context.Context, jobs []JobPosting) []BatchResult {
	start := time.Now()
	results := c.batchSvc.Jobs(ctx, jobs)
	c.obs.observe("batch_ingest", start, firstError(results))
	return toBatchResults(results)
}

// BatchIngestProfiles ingests candidate profiles with per-item outcomes.
func (c *Client) BatchIngestProfiles(ctx context.Context, profiles []Profile) []BatchResult {
	start := time.Now()
	results := c.batchSvc.Profiles(ctx, profiles)
	c.obs.observe("batch_ingest", start, firstError(results))
	return toBatchResults(results)
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Usage returns an embedding usage report for the given period.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, usageuc.Period(period))
	return UsageReport{
		Period:      UsagePeriod(report.Period),
		PeriodStart: time.UnixMilli(report.PeriodStart).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd).UTC(),
		TokensUsed:  report.TokensUsed,
		TokenLimit:  report.TokenLimit,
		Remaining:   report.Remaining,
		Exhausted:   report.Exhausted,
	}
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func toBatchResults(in []batchuc.Result) []BatchResult {
	out := make([]BatchResult, len(in))
	for i, r := range in {
		out[i] = BatchResult{ID: r.ID, OK: r.Err == nil, Err: r.Err}
	}
	return out
}

func firstError(results []batchuc.Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
