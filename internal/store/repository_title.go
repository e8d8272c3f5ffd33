package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// titleRepository is the PostgreSQL-backed implementation of
// [TitleRepository]. Titles live in "titles", genre links in "title_genres";
// the rating is aggregated from "reviews" on every read.
type titleRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewTitleRepository constructs a [TitleRepository].
func NewTitleRepository(db *DB, logger *logger.Logger) TitleRepository {
	logger.Debug().Msg("creating title repository")
	return &titleRepository{
		db:     db,
		logger: logger,
	}
}

func scanTitle(row rowScanner, title *models.Title) error {
	var (
		description  sql.NullString
		categoryID   sql.NullInt64
		categoryName sql.NullString
		categorySlug sql.NullString
		rating       sql.NullInt64
	)

	if err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&description,
		&categoryID,
		&categoryName,
		&categorySlug,
		&rating,
	); err != nil {
		return err
	}

	if description.Valid {
		title.Description = &description.String
	}
	if categoryID.Valid {
		title.Category = &models.SlugNamed{
			ID:   categoryID.Int64,
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}
	if rating.Valid {
		value := int(rating.Int64)
		title.Rating = &value
	}
	title.Genre = []models.SlugNamed{}

	return nil
}

// CreateTitle inserts the title and its genre links in one transaction.
// Unknown category or genre ids are reported as [ErrNotFound].
func (r *titleRepository) CreateTitle(ctx context.Context, title models.TitleWrite) (models.Title, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertTitleQuery(title)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.CreateTitle").Msg("failed to create query")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.CreateTitle").Msg("failed to begin transaction")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var titleID int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&titleID); err != nil {
		if isForeignKeyViolation(err) {
			return models.Title{}, ErrCategoryNotFound
		}

		log.Err(err).Str("func", "*titleRepository.CreateTitle").Msg("failed to insert title")
		return models.Title{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if title.GenreIDs != nil {
		if err = r.linkGenres(ctx, tx, titleID, *title.GenreIDs); err != nil {
			return models.Title{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*titleRepository.CreateTitle").Int64("title_id", titleID).Msg("failed to commit transaction")
		return models.Title{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return r.GetTitle(ctx, titleID)
}

func (r *titleRepository) GetTitle(ctx context.Context, titleID int64) (models.Title, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetTitleQuery(titleID)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.GetTitle").Msg("failed to create query")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var title models.Title
	if err = scanTitle(r.db.QueryRowContext(ctx, query, args...), &title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Title{}, ErrNotFound
		}

		log.Err(err).Str("func", "*titleRepository.GetTitle").Int64("title_id", titleID).Msg("failed to get title")
		return models.Title{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	titles := []models.Title{title}
	if err = r.loadGenres(ctx, titles); err != nil {
		return models.Title{}, err
	}

	return titles[0], nil
}

// ListTitles returns one page of titles ordered by id and the total number
// of titles matching filter.
func (r *titleRepository) ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountTitlesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("failed to create count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("failed to count titles")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListTitlesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("failed to create query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("failed to execute query")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	titles := make([]models.Title, 0)
	for rows.Next() {
		var title models.Title
		if err = scanTitle(rows, &title); err != nil {
			log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("failed to scan title row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		titles = append(titles, title)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*titleRepository.ListTitles").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if err = r.loadGenres(ctx, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// UpdateTitle applies a partial update. The row is locked first so a missing
// title is reported as [ErrNotFound] before any change is attempted. A
// non-nil GenreIDs replaces the whole genre set.
func (r *titleRepository) UpdateTitle(ctx context.Context, titleID int64, title models.TitleWrite) (models.Title, error) {
	log := logger.FromContext(ctx)

	lockQuery, lockArgs, err := buildLockTitleQuery(titleID)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.UpdateTitle").Msg("failed to create lock query")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := buildUpdateTitleQuery(titleID, title)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.UpdateTitle").Msg("failed to create query")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.UpdateTitle").Msg("failed to begin transaction")
		return models.Title{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var lockedID int64
	if err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Title{}, ErrNotFound
		}

		log.Err(err).Str("func", "*titleRepository.UpdateTitle").Int64("title_id", titleID).Msg("failed to lock title")
		return models.Title{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if query != "" {
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			if isForeignKeyViolation(err) {
				return models.Title{}, ErrCategoryNotFound
			}

			log.Err(err).Str("func", "*titleRepository.UpdateTitle").Int64("title_id", titleID).Msg("failed to update title")
			return models.Title{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	if title.GenreIDs != nil {
		deleteQuery, deleteArgs, err := buildDeleteTitleGenresQuery(titleID)
		if err != nil {
			return models.Title{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			log.Err(err).Str("func", "*titleRepository.UpdateTitle").Int64("title_id", titleID).Msg("failed to unlink genres")
			return models.Title{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		if err = r.linkGenres(ctx, tx, titleID, *title.GenreIDs); err != nil {
			return models.Title{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*titleRepository.UpdateTitle").Int64("title_id", titleID).Msg("failed to commit transaction")
		return models.Title{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return r.GetTitle(ctx, titleID)
}

// DeleteTitle removes the title; its reviews, their comments and the genre
// links are removed by cascade.
func (r *titleRepository) DeleteTitle(ctx context.Context, titleID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteTitleQuery(titleID)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.DeleteTitle").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.DeleteTitle").Int64("title_id", titleID).Msg("failed to delete title")
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

func (r *titleRepository) linkGenres(ctx context.Context, tx *sql.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildInsertTitleGenresQuery(titleID, genreIDs)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.linkGenres").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return ErrGenreNotFound
		}

		log.Err(err).Str("func", "*titleRepository.linkGenres").Int64("title_id", titleID).Msg("failed to link genres")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// loadGenres fills Genre of every title with one query.
func (r *titleRepository) loadGenres(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	ids := make([]int64, 0, len(titles))
	index := make(map[int64]int, len(titles))
	for i, title := range titles {
		ids = append(ids, title.ID)
		index[title.ID] = i
	}

	query, args, err := buildTitleGenresQuery(ids)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.loadGenres").Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*titleRepository.loadGenres").Msg("failed to execute query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID int64
			genre   models.SlugNamed
		)
		if err = rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			log.Err(err).Str("func", "*titleRepository.loadGenres").Msg("failed to scan genre row")
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		if i, ok := index[titleID]; ok {
			titles[i].Genre = append(titles[i].Genre, genre)
		}
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*titleRepository.loadGenres").Msg("error occurred during rows iteration")
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return nil
}
