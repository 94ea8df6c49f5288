package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"modo/internal/domain/entity"
	"modo/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, kind, locator, enabled, country_override, created_at`

func scanSource(scanner interface {
	Scan(dest ...interface{}) error
}) (*entity.Source, error) {
	var s entity.Source
	var kind string
	if err := scanner.Scan(&s.ID, &s.Name, &kind, &s.Locator, &s.Enabled, &s.CountryOverride, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Kind = entity.SourceKind(kind)
	return &s, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = $1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) GetByName(ctx context.Context, name string) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE name = $1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) list(ctx context.Context, where string, args ...interface{}) ([]*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources` + where + ` ORDER BY name`
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sources []*entity.Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	sources, err := repo.list(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return sources, nil
}

func (repo *SourceRepo) ListEnabled(ctx context.Context) ([]*entity.Source, error) {
	sources, err := repo.list(ctx, " WHERE enabled")
	if err != nil {
		return nil, fmt.Errorf("ListEnabled: %w", err)
	}
	return sources, nil
}

func (repo *SourceRepo) Create(ctx context.Context, source *entity.Source) error {
	const query = `
INSERT INTO sources (name, kind, locator, enabled, country_override, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id, created_at`

	if err := repo.db.QueryRowContext(ctx, query,
		source.Name, string(source.Kind), source.Locator, source.Enabled, source.CountryOverride,
	).Scan(&source.ID, &source.CreatedAt); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	const query = `
UPDATE sources SET
    name             = $1,
    kind             = $2,
    locator          = $3,
    enabled          = $4,
    country_override = $5
WHERE id = $6`

	res, err := repo.db.ExecContext(ctx, query,
		source.Name, string(source.Kind), source.Locator, source.Enabled, source.CountryOverride, source.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
