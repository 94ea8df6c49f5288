package repository

import (
	"context"

	"modo/internal/domain/entity"
)

// BriefRepository caches generated country/window briefs.
type BriefRepository interface {
	Get(ctx context.Context, countryCode string, daysRange int) (*entity.Brief, error)
	Upsert(ctx context.Context, brief *entity.Brief) error
}
