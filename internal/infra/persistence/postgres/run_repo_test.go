package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modo/internal/domain/entity"
	pg "modo/internal/infra/persistence/postgres"
)

func TestRunRepo_CreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	started := time.Now()
	mock.ExpectQuery("INSERT INTO ingestion_runs").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	repo := pg.NewRunRepo(db)
	run := &entity.IngestionRun{StartedAt: started, Status: entity.RunStatusRunning}
	err = repo.Create(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, int64(3), run.ID)

	mock.ExpectQuery("FROM ingestion_runs").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "finished_at", "status", "stats"}).
			AddRow(int64(3), started, nil, "running", []byte(`{"sources_processed":2}`)))

	got, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusRunning, got.Status)
	assert.Equal(t, 2, got.Stats.SourcesProcessed)
}

func TestRunRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE ingestion_runs").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewRunRepo(db)
	err = repo.Update(context.Background(), &entity.IngestionRun{ID: 999, Status: entity.RunStatusFailed})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRunRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery("FROM ingestion_runs").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "finished_at", "status", "stats"}).
			AddRow(int64(1), now, now, "completed", []byte(`{}`)))

	repo := pg.NewRunRepo(db)
	got, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
