package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"modo/internal/domain/entity"
	"modo/internal/repository"
)

type RunRepo struct{ db *sql.DB }

func NewRunRepo(db *sql.DB) repository.RunRepository {
	return &RunRepo{db: db}
}

func (repo *RunRepo) Create(ctx context.Context, run *entity.IngestionRun) error {
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("Create: marshal stats: %w", err)
	}

	const query = `
INSERT INTO ingestion_runs (started_at, finished_at, status, stats)
VALUES ($1, $2, $3, $4)
RETURNING id`

	if err := repo.db.QueryRowContext(ctx, query,
		run.StartedAt, run.FinishedAt, string(run.Status), statsJSON,
	).Scan(&run.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *RunRepo) Update(ctx context.Context, run *entity.IngestionRun) error {
	statsJSON, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("Update: marshal stats: %w", err)
	}

	const query = `
UPDATE ingestion_runs SET finished_at = $1, status = $2, stats = $3
WHERE id = $4`

	res, err := repo.db.ExecContext(ctx, query, run.FinishedAt, string(run.Status), statsJSON, run.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanRun(scanner interface {
	Scan(dest ...interface{}) error
}) (*entity.IngestionRun, error) {
	var run entity.IngestionRun
	var status string
	var statsJSON []byte
	var finishedAt sql.NullTime

	if err := scanner.Scan(&run.ID, &run.StartedAt, &finishedAt, &status, &statsJSON); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	run.Status = entity.RunStatus(status)
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &run.Stats); err != nil {
			return nil, fmt.Errorf("unmarshal stats: %w", err)
		}
	}
	return &run, nil
}

func (repo *RunRepo) Get(ctx context.Context, id int64) (*entity.IngestionRun, error) {
	query := `SELECT id, started_at, finished_at, status, stats FROM ingestion_runs WHERE id = $1`
	run, err := scanRun(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return run, nil
}

func (repo *RunRepo) List(ctx context.Context, limit, offset int) ([]*entity.IngestionRun, error) {
	query := `
SELECT id, started_at, finished_at, status, stats
FROM ingestion_runs
ORDER BY started_at DESC
LIMIT $1 OFFSET $2`

	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*entity.IngestionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
