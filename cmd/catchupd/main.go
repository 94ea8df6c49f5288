// Command catchupd is the long-running worker: it runs the ingestion
// pipeline (C12) on a cron schedule and exposes a health check server for
// orchestration probes.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"modo/internal/infra/chunk"
	"modo/internal/infra/db"
	"modo/internal/infra/extractor"
	"modo/internal/infra/feedparser"
	"modo/internal/infra/fetcher"
	"modo/internal/infra/llm"
	pgRepo "modo/internal/infra/persistence/postgres"
	"modo/internal/infra/scraper"
	"modo/internal/infra/tagging/country"
	"modo/internal/infra/tagging/topic"
	workerPkg "modo/internal/infra/worker"
	"modo/internal/observability/correlation"
	"modo/internal/observability/logging"
	"modo/internal/observability/metrics"
	"modo/internal/taxonomy"
	"modo/internal/usecase/ingest"
)

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("article_concurrency", workerConfig.ArticleConcurrency),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	go reportDBConnectionStats(ctx, database)

	svc := setupIngestService(logger, database, workerConfig.ArticleConcurrency)

	startCronWorker(logger, svc, workerConfig, workerMetrics, healthServer)
}

// reportDBConnectionStats periodically publishes the pgx pool's connection
// counts so they show up alongside the ingestion metrics.
func reportDBConnectionStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}

func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupIngestService wires every C1-C9 component into one ingest.Service.
func setupIngestService(logger *slog.Logger, database *sql.DB, articleConcurrency int) *ingest.Service {
	countries, err := taxonomy.LoadCountries()
	if err != nil {
		logger.Error("failed to load country taxonomy", slog.Any("error", err))
		os.Exit(1)
	}
	topics, err := taxonomy.LoadTopics()
	if err != nil {
		logger.Error("failed to load topic taxonomy", slog.Any("error", err))
		os.Exit(1)
	}

	fetchCfg := fetcher.DefaultConfig()
	if err := fetchCfg.Validate(); err != nil {
		logger.Error("invalid fetcher configuration", slog.Any("error", err))
		os.Exit(1)
	}
	f := fetcher.New(fetchCfg)

	feedHTTPClient := &http.Client{Timeout: fetchCfg.Timeout}

	embedder := createEmbedder(logger)

	return &ingest.Service{
		Sources:   pgRepo.NewSourceRepo(database),
		Articles:  pgRepo.NewArticleRepo(database),
		Chunks:    pgRepo.NewChunkRepo(database),
		Runs:      pgRepo.NewRunRepo(database),
		Feeds:     feedparser.New(feedHTTPClient),
		Scrapers:  scraper.NewRegistry(),
		Extractor: extractor.New(f),
		Countries: country.New(countries),
		Topics:    topic.New(topics),
		Embedder:  embedder,

		ChunkParams:        chunk.DefaultParams,
		EmbedBatch:         llm.MaxEmbedBatch,
		ArticleConcurrency: articleConcurrency,
	}
}

// createEmbedder builds the OpenAI embedder from OPENAI_API_KEY and exits
// the process when the key is unset; there is no other provider to pick.
func createEmbedder(logger *slog.Logger) llm.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Error("OPENAI_API_KEY is required for embedding")
		os.Exit(1)
	}
	return llm.NewOpenAIEmbedder(apiKey)
}

// startCronWorker starts the cron scheduler and runs the ingestion job
// periodically. A running flag keeps two runs from overlapping if a run
// takes longer than the schedule interval.
func startCronWorker(logger *slog.Logger, svc *ingest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	running := make(chan struct{}, 1)
	running <- struct{}{}

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		select {
		case <-running:
			defer func() { running <- struct{}{} }()
			runIngestionJob(logger, svc, cfg, metrics)
		default:
			logger.Warn("ingestion run still in progress, skipping this tick")
		}
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runIngestionJob executes one ingestion run with a correlation ID and a
// timeout, recording metrics regardless of outcome.
func runIngestionJob(logger *slog.Logger, svc *ingest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CrawlTimeout)
	defer cancel()
	ctx = correlation.WithID(ctx, correlation.New())
	runLogger := logging.WithRequestID(ctx, logger)
	runLogger.Info("ingestion run started")

	run, err := svc.Run(ctx)
	if err != nil {
		runLogger.Error("ingestion run failed", slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordFeedsProcessed(run.Stats.SourcesProcessed)
	metrics.RecordLastSuccess()

	runLogger.Info("ingestion run completed",
		slog.Int64("run_id", run.ID),
		slog.Int("sources_processed", run.Stats.SourcesProcessed),
		slog.Int("articles_fetched", run.Stats.ArticlesFetched),
		slog.Int("articles_new", run.Stats.ArticlesNew),
		slog.Int("articles_updated", run.Stats.ArticlesUpdated),
		slog.Int("chunks_embedded", run.Stats.ChunksEmbedded),
		slog.Int("error_count", run.Stats.ErrorCount),
	)
}
