package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// slugNamedRepository serves one dictionary table. Categories and genres
// share the layout (id, name, slug) so the table name is the only difference.
type slugNamedRepository struct {
	db     *DB
	table  string
	logger *logger.Logger
}

// NewSlugNamedRepository returns the repository of the given dictionary.
func NewSlugNamedRepository(db *DB, kind models.SlugKind, logger *logger.Logger) SlugNamedRepository {
	logger.Debug().Str("table", string(kind)).Msg("creating slug-named repository")
	return &slugNamedRepository{
		db:     db,
		table:  string(kind),
		logger: logger,
	}
}

func (r *slugNamedRepository) CreateSlugNamed(ctx context.Context, item models.SlugNamed) (models.SlugNamed, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertSlugNamedQuery(r.table, item)
	if err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.CreateSlugNamed").Msg("failed to create query")
		return models.SlugNamed{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.SlugNamed
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.Name, &created.Slug); err != nil {
		if isUniqueViolation(err) {
			log.Warn().
				Str("func", "*slugNamedRepository.CreateSlugNamed").
				Str("table", r.table).
				Str("slug", item.Slug).
				Msg("slug is already taken")
			return models.SlugNamed{}, ErrSlugAlreadyExists
		}

		log.Err(err).Str("func", "*slugNamedRepository.CreateSlugNamed").Str("table", r.table).Msg("failed to insert entry")
		return models.SlugNamed{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *slugNamedRepository) ListSlugNamed(ctx context.Context, filter models.SlugNamedFilter) ([]models.SlugNamed, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountSlugNamedQuery(r.table, filter)
	if err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.ListSlugNamed").Msg("failed to create count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.ListSlugNamed").Str("table", r.table).Msg("failed to count entries")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListSlugNamedQuery(r.table, filter)
	if err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.ListSlugNamed").Msg("failed to create query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	items, err := r.query(ctx, "*slugNamedRepository.ListSlugNamed", query, args)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *slugNamedRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.SlugNamed, error) {
	if len(slugs) == 0 {
		return []models.SlugNamed{}, nil
	}

	query, args, err := buildFindBySlugsQuery(r.table, slugs)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*slugNamedRepository.FindBySlugs").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.query(ctx, "*slugNamedRepository.FindBySlugs", query, args)
}

// DeleteBySlug removes the entry. Titles referencing a deleted category
// become uncategorized; genre links are dropped.
func (r *slugNamedRepository) DeleteBySlug(ctx context.Context, slug string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteBySlugQuery(r.table, slug)
	if err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.DeleteBySlug").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*slugNamedRepository.DeleteBySlug").Str("table", r.table).Str("slug", slug).Msg("failed to delete entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *slugNamedRepository) query(ctx context.Context, funcName, query string, args []any) ([]models.SlugNamed, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("table", r.table).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return collectSlugNamed(ctx, rows, funcName)
}

func collectSlugNamed(ctx context.Context, rows *sql.Rows, funcName string) ([]models.SlugNamed, error) {
	log := logger.FromContext(ctx)

	items := make([]models.SlugNamed, 0)
	for rows.Next() {
		var item models.SlugNamed
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug); err != nil {
			log.Err(err).Str("func", funcName).Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}
