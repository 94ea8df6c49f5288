package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modo/internal/domain/entity"
	pg "modo/internal/infra/persistence/postgres"
	"modo/internal/repository"
)

var articleCols = []string{
	"id", "source_id", "title", "url", "published_at", "fetched_at", "raw_summary",
	"content_text", "language", "content_hash", "country_codes", "topic_tags", "metadata", "created_at",
}

func articleRow(a *entity.Article) *sqlmock.Rows {
	return sqlmock.NewRows(articleCols).AddRow(
		a.ID, a.SourceID, a.Title, a.URL, a.PublishedAt, a.FetchedAt, a.RawSummary,
		a.ContentText, a.Language, a.ContentHash, "{}", "{}", "{}", a.CreatedAt,
	)
}

func TestArticleRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	want := &entity.Article{ID: 1, SourceID: 2, Title: "headline", URL: "https://x.com/a", FetchedAt: now, ContentHash: "h", CreatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(1)).WillReturnRows(articleRow(want))

	repo := pg.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.ID, got.ID)
}

func TestArticleRepo_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(999)).WillReturnRows(sqlmock.NewRows(articleCols))

	repo := pg.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 999)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestArticleRepo_UpsertByURL_Inserted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	article := &entity.Article{SourceID: 1, Title: "t", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h1"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "inserted"}).AddRow(int64(10), now, true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(10)).WillReturnRows(articleRow(&entity.Article{
		ID: 10, SourceID: 1, Title: "t", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h1", CreatedAt: now,
	}))

	repo := pg.NewArticleRepo(db)
	status, persisted, err := repo.UpsertByURL(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertInserted, status)
	assert.Equal(t, int64(10), persisted.ID)
}

func TestArticleRepo_UpsertByURL_Updated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	article := &entity.Article{SourceID: 1, Title: "t2", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h2"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "inserted"}).AddRow(int64(10), now, false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(10)).WillReturnRows(articleRow(&entity.Article{
		ID: 10, SourceID: 1, Title: "t2", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h2", CreatedAt: now,
	}))

	repo := pg.NewArticleRepo(db)
	status, _, err := repo.UpsertByURL(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertUpdated, status)
}

func TestArticleRepo_UpsertByURL_Unchanged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	article := &entity.Article{SourceID: 1, Title: "t", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h1"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs("https://x.com/1").WillReturnRows(articleRow(&entity.Article{
		ID: 10, SourceID: 1, Title: "t", URL: "https://x.com/1", FetchedAt: now, ContentHash: "h1", CreatedAt: now,
	}))

	repo := pg.NewArticleRepo(db)
	status, persisted, err := repo.UpsertByURL(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertUnchanged, status)
	assert.Equal(t, int64(10), persisted.ID)
}

func TestArticleRepo_SearchByFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery("FROM articles").
		WillReturnRows(articleRow(&entity.Article{ID: 1, SourceID: 1, Title: "a", URL: "https://x.com/a", FetchedAt: now, ContentHash: "h", CreatedAt: now}))

	repo := pg.NewArticleRepo(db)
	got, err := repo.SearchByFilters(context.Background(), repository.ArticleSearchFilters{Countries: []string{"JP"}}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestArticleRepo_CountByFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := pg.NewArticleRepo(db)
	count, err := repo.CountByFilters(context.Background(), repository.ArticleSearchFilters{Topics: []string{"tech"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestArticleRepo_ListCountries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM articles, unnest").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"code", "article_count"}).AddRow("JP", 12).AddRow("US", 5))

	repo := pg.NewArticleRepo(db)
	got, err := repo.ListCountries(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JP", got[0].Code)
	assert.Equal(t, 12, got[0].Count)
}

func TestArticleRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE articles").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewArticleRepo(db)
	err = repo.Update(context.Background(), &entity.Article{ID: 999})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestArticleRepo_Get_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(1)).WillReturnError(errors.New("conn lost"))

	repo := pg.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, got)
}
