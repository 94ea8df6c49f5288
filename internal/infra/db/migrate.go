package db

import "database/sql"

// MigrateUp applies the schema: sources, articles, article_chunks,
// ingestion_runs, briefs, plus the pgvector extension and IVFFlat index
// article_chunks needs for cosine similarity search.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sources (
    id               SERIAL PRIMARY KEY,
    name             TEXT NOT NULL UNIQUE,
    kind             VARCHAR(20) NOT NULL,
    locator          TEXT NOT NULL,
    enabled          BOOLEAN NOT NULL DEFAULT TRUE,
    country_override VARCHAR(8) NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id            SERIAL PRIMARY KEY,
    source_id     INTEGER NOT NULL REFERENCES sources(id),
    title         TEXT NOT NULL,
    url           TEXT NOT NULL UNIQUE,
    published_at  TIMESTAMPTZ,
    fetched_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    raw_summary   TEXT NOT NULL DEFAULT '',
    content_text  TEXT NOT NULL DEFAULT '',
    language      VARCHAR(8) NOT NULL DEFAULT '',
    content_hash  CHAR(64) NOT NULL,
    country_codes TEXT[] NOT NULL DEFAULT '{}',
    topic_tags    TEXT[] NOT NULL DEFAULT '{}',
    metadata      JSONB NOT NULL DEFAULT '{}',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ingestion_runs (
    id          SERIAL PRIMARY KEY,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ,
    status      VARCHAR(20) NOT NULL,
    stats       JSONB NOT NULL DEFAULT '{}'
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS briefs (
    id            SERIAL PRIMARY KEY,
    country_code  VARCHAR(8) NOT NULL,
    content       TEXT NOT NULL,
    article_count INT NOT NULL,
    days_range    INT NOT NULL,
    generated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(country_code, days_range)
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_country_codes ON articles USING gin(country_codes)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_topic_tags ON articles USING gin(topic_tags)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_enabled ON sources(enabled) WHERE enabled`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// ILIKE/substring title search (ArticleSearchFilters.TitlePhrases).
	// Ignored if pg_trgm can't be installed (no superuser); the repo
	// still works, just without the GIN-accelerated path.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`)

	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'chk_source_kind'
    ) THEN
        ALTER TABLE sources ADD CONSTRAINT chk_source_kind
        CHECK (kind IN ('rss', 'web_scraper', 'paywalled'));
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'chk_run_status'
    ) THEN
        ALTER TABLE ingestion_runs ADD CONSTRAINT chk_run_status
        CHECK (status IN ('running', 'completed', 'failed'));
    END IF;
END $$;
`)

	// article_chunks holds the retrieval unit's embedding; ignored if the
	// superuser can't install pgvector (a deployment without it simply
	// can't serve vector search).
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`)

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS article_chunks (
    id            SERIAL PRIMARY KEY,
    article_id    INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    chunk_index   INT NOT NULL,
    text          TEXT NOT NULL,
    embedding     vector(1536),
    country_codes TEXT[] NOT NULL DEFAULT '{}',
    topic_tags    TEXT[] NOT NULL DEFAULT '{}',
    published_at  TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(article_id, chunk_index)
)`); err != nil {
		return err
	}

	chunkIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_article_chunks_article_id ON article_chunks(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_article_chunks_country_codes ON article_chunks USING gin(country_codes)`,
		`CREATE INDEX IF NOT EXISTS idx_article_chunks_topic_tags ON article_chunks USING gin(topic_tags)`,
		`CREATE INDEX IF NOT EXISTS idx_article_chunks_published_at ON article_chunks(published_at DESC)`,
	}
	for _, idx := range chunkIndexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// IVFFlat needs the vector extension installed; ignored otherwise.
	// lists=100 suits collections under ~1M rows.
	_, _ = db.Exec(`
CREATE INDEX IF NOT EXISTS idx_article_chunks_vector
    ON article_chunks USING ivfflat (embedding vector_cosine_ops)
    WITH (lists = 100)`)

	return nil
}

// MigrateDown drops every table this package creates, in dependency
// order. Use with caution: this deletes all data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_article_chunks_vector`,
		`DROP TABLE IF EXISTS article_chunks CASCADE`,
		`DROP TABLE IF EXISTS briefs CASCADE`,
		`DROP TABLE IF EXISTS ingestion_runs CASCADE`,
		`DROP TABLE IF EXISTS articles CASCADE`,
		`DROP TABLE IF EXISTS sources CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
