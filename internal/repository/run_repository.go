package repository

import (
	"context"

	"modo/internal/domain/entity"
)

// RunRepository persists IngestionRun audit records for trigger-run,
// list-runs, and get-run.
type RunRepository interface {
	Create(ctx context.Context, run *entity.IngestionRun) error
	Update(ctx context.Context, run *entity.IngestionRun) error
	Get(ctx context.Context, id int64) (*entity.IngestionRun, error)
	List(ctx context.Context, limit, offset int) ([]*entity.IngestionRun, error)
}
