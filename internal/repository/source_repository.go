package repository

import (
	"context"

	"modo/internal/domain/entity"
)

// SourceRepository persists ingestion origins.
type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Source, error)
	GetByName(ctx context.Context, name string) (*entity.Source, error)
	List(ctx context.Context) ([]*entity.Source, error)
	// ListEnabled returns sources the orchestrator should process this run.
	ListEnabled(ctx context.Context) ([]*entity.Source, error)
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	Delete(ctx context.Context, id int64) error
}
