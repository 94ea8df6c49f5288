package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"modo/internal/domain/entity"
	"modo/internal/repository"
)

type BriefRepo struct{ db *sql.DB }

func NewBriefRepo(db *sql.DB) repository.BriefRepository {
	return &BriefRepo{db: db}
}

func (repo *BriefRepo) Get(ctx context.Context, countryCode string, daysRange int) (*entity.Brief, error) {
	const query = `
SELECT id, country_code, content, article_count, days_range, generated_at
FROM briefs
WHERE country_code = $1 AND days_range = $2`

	var b entity.Brief
	err := repo.db.QueryRowContext(ctx, query, countryCode, daysRange).Scan(
		&b.ID, &b.CountryCode, &b.Content, &b.ArticleCount, &b.DaysRange, &b.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &b, nil
}

// Upsert keyed on (country_code, days_range): re-generating a brief for
// the same country/window replaces the cached one instead of growing the
// table unbounded.
func (repo *BriefRepo) Upsert(ctx context.Context, brief *entity.Brief) error {
	const query = `
INSERT INTO briefs (country_code, content, article_count, days_range, generated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (country_code, days_range) DO UPDATE SET
    content       = EXCLUDED.content,
    article_count = EXCLUDED.article_count,
    generated_at  = EXCLUDED.generated_at
RETURNING id, generated_at`

	if err := repo.db.QueryRowContext(ctx, query,
		brief.CountryCode, brief.Content, brief.ArticleCount, brief.DaysRange,
	).Scan(&brief.ID, &brief.GeneratedAt); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}
