// Package commands implements the catchupctl subcommands: trigger-run,
// list-runs, get-run, search, ask, brief, and top-stories.
package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

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
	"modo/internal/taxonomy"
	"modo/internal/usecase/answer"
	"modo/internal/usecase/brief"
	"modo/internal/usecase/ingest"
	"modo/internal/usecase/retrieve"
	"modo/internal/usecase/topstories"
)

// openDB opens the Postgres connection pool the same way catchupd does.
func openDB() *sql.DB {
	return db.Open()
}

// newIngestService wires every C1-C9 component into one ingest.Service,
// mirroring cmd/catchupd's setupIngestService for one-shot invocation from
// trigger-run.
func newIngestService(logger *slog.Logger, database *sql.DB) (*ingest.Service, error) {
	countries, err := taxonomy.LoadCountries()
	if err != nil {
		return nil, fmt.Errorf("load country taxonomy: %w", err)
	}
	topics, err := taxonomy.LoadTopics()
	if err != nil {
		return nil, fmt.Errorf("load topic taxonomy: %w", err)
	}

	fetchCfg := fetcher.DefaultConfig()
	if err := fetchCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetcher configuration: %w", err)
	}
	f := fetcher.New(fetchCfg)
	feedHTTPClient := &http.Client{Timeout: fetchCfg.Timeout}

	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}

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

		ChunkParams: chunk.DefaultParams,
		EmbedBatch:  llm.MaxEmbedBatch,
	}, nil
}

// newEmbedder requires OPENAI_API_KEY; embeddings are OpenAI-only per C8.
func newEmbedder() (llm.Embedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for embedding")
	}
	return llm.NewOpenAIEmbedder(apiKey), nil
}

// newChatModel picks the ChatModel backing the Answerer/Generator from
// CHAT_PROVIDER, defaulting to openai. Set CHAT_PROVIDER=claude to use
// Claude instead.
func newChatModel() (llm.ChatModel, error) {
	provider := os.Getenv("CHAT_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when CHAT_PROVIDER=claude")
		}
		model := os.Getenv("CLAUDE_MODEL")
		if model == "" {
			model = "claude-3-5-sonnet-latest"
		}
		return llm.NewClaudeChatModel(apiKey, model), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when CHAT_PROVIDER=openai")
		}
		model := os.Getenv("OPENAI_CHAT_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		return llm.NewOpenAIChatModel(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown CHAT_PROVIDER %q (want openai or claude)", provider)
	}
}

// newRetriever wires up the Retriever (C10) for search/ask.
func newRetriever(database *sql.DB) (*retrieve.Retriever, error) {
	countries, err := taxonomy.LoadCountries()
	if err != nil {
		return nil, fmt.Errorf("load country taxonomy: %w", err)
	}
	topics, err := taxonomy.LoadTopics()
	if err != nil {
		return nil, fmt.Errorf("load topic taxonomy: %w", err)
	}
	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}

	return &retrieve.Retriever{
		Embedder:      embedder,
		Chunks:        pgRepo.NewChunkRepo(database),
		Articles:      pgRepo.NewArticleRepo(database),
		CountryTagger: country.New(countries),
		TopicTagger:   topic.New(topics),
	}, nil
}

// newAnswerer wires the Retriever and ChatModel into an Answerer (C11).
func newAnswerer(database *sql.DB) (*answer.Answerer, error) {
	retriever, err := newRetriever(database)
	if err != nil {
		return nil, err
	}
	chat, err := newChatModel()
	if err != nil {
		return nil, err
	}
	return &answer.Answerer{Retriever: retriever, Chat: chat}, nil
}

// newBriefGenerator wires the brief Generator, the Answerer's cached
// analyst-report sibling.
func newBriefGenerator(database *sql.DB) (*brief.Generator, error) {
	chat, err := newChatModel()
	if err != nil {
		return nil, err
	}
	return &brief.Generator{
		Articles: pgRepo.NewArticleRepo(database),
		Briefs:   pgRepo.NewBriefRepo(database),
		Chat:     chat,
	}, nil
}

// newTopStoriesRanker wires the top_stories Ranker.
func newTopStoriesRanker(database *sql.DB) (*topstories.Ranker, error) {
	tiers, err := taxonomy.LoadSourceTiers()
	if err != nil {
		return nil, fmt.Errorf("load source tiers: %w", err)
	}
	return &topstories.Ranker{
		Articles: pgRepo.NewArticleRepo(database),
		Tiers:    tiers,
	}, nil
}
