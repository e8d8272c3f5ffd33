package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

var titleRowColumns = []string{"id", "name", "year", "description", "c.id", "c.name", "c.slug", "rating"}

func genreRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"title_id", "id", "name", "slug"})
}

func TestGetTitle_RatingCategoryAndGenres(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM titles t LEFT JOIN categories c ON c.id = t.category_id LEFT JOIN reviews r ON r.title_id = t.id WHERE t.id = $1 GROUP BY t.id, c.id")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(titleRowColumns).
			AddRow(int64(5), "Solaris", 1972, "space", int64(1), "Film", "film", int64(8)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE tg.title_id IN ($1)")).
		WithArgs(int64(5)).
		WillReturnRows(genreRows().
			AddRow(int64(5), int64(2), "Drama", "drama").
			AddRow(int64(5), int64(3), "Sci-Fi", "sci-fi"))

	title, err := repo.GetTitle(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "Solaris", title.Name)
	require.NotNil(t, title.Description)
	assert.Equal(t, "space", *title.Description)
	require.NotNil(t, title.Category)
	assert.Equal(t, "film", title.Category.Slug)
	require.NotNil(t, title.Rating)
	assert.Equal(t, 8, *title.Rating)
	require.Len(t, title.Genre, 2)
	assert.Equal(t, "sci-fi", title.Genre[1].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTitle_WithoutReviewsOrCategory(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectQuery("FROM titles t").
		WillReturnRows(sqlmock.NewRows(titleRowColumns).
			AddRow(int64(5), "Solaris", 1972, nil, nil, nil, nil, nil))
	mock.ExpectQuery("FROM title_genres").WillReturnRows(genreRows())

	title, err := repo.GetTitle(context.Background(), 5)
	require.NoError(t, err)

	assert.Nil(t, title.Description)
	assert.Nil(t, title.Category)
	assert.Nil(t, title.Rating)
	assert.NotNil(t, title.Genre)
	assert.Empty(t, title.Genre)
}

func TestGetTitle_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectQuery("FROM titles t").WillReturnRows(sqlmock.NewRows(titleRowColumns))

	_, err := repo.GetTitle(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTitles_Filters(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id WHERE (c.slug = $1 AND EXISTS (")).
		WithArgs("film", "drama", "%sol%", 1972).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY t.id LIMIT 10 OFFSET 0")).
		WithArgs("film", "drama", "%sol%", 1972).
		WillReturnRows(sqlmock.NewRows(titleRowColumns).
			AddRow(int64(5), "Solaris", 1972, nil, int64(1), "Film", "film", nil))
	mock.ExpectQuery("FROM title_genres").
		WithArgs(int64(5)).
		WillReturnRows(genreRows().AddRow(int64(5), int64(2), "Drama", "drama"))

	titles, total, err := repo.ListTitles(context.Background(), models.TitleFilter{
		CategorySlug: "film",
		GenreSlug:    "drama",
		Name:         "sol",
		Year:         1972,
		PageRequest:  models.PageRequest{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, titles, 1)
	assert.Equal(t, "drama", titles[0].Genre[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTitles_EmptyPageSkipsGenres(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM titles t").WillReturnRows(sqlmock.NewRows(titleRowColumns))

	titles, total, err := repo.ListTitles(context.Background(), models.TitleFilter{PageRequest: models.PageRequest{Page: 3, PageSize: 10}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, titles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTitle_LinksGenresInTransaction(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	name, year := "Solaris", 1972
	categoryID := int64(1)
	genres := []int64{2, 3}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO titles (name,year,description,category_id) VALUES ($1,$2,$3,$4) RETURNING id")).
		WithArgs("Solaris", 1972, nil, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO title_genres (title_id,genre_id) VALUES ($1,$2),($3,$4) ON CONFLICT DO NOTHING")).
		WithArgs(int64(5), int64(2), int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM titles t").
		WillReturnRows(sqlmock.NewRows(titleRowColumns).
			AddRow(int64(5), "Solaris", 1972, nil, int64(1), "Film", "film", nil))
	mock.ExpectQuery("FROM title_genres").WillReturnRows(genreRows())

	title, err := repo.CreateTitle(context.Background(), models.TitleWrite{
		Name:        &name,
		Year:        &year,
		CategorySet: true,
		CategoryID:  &categoryID,
		GenreIDs:    &genres,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), title.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTitle_UnknownGenreRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	name, year := "Solaris", 1972
	genres := []int64{42}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO titles").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec("INSERT INTO title_genres").WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	_, err := repo.CreateTitle(context.Background(), models.TitleWrite{Name: &name, Year: &year, GenreIDs: &genres})
	assert.ErrorIs(t, err, ErrGenreNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTitle_CategoryRemovedMeanwhile(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	name, year := "Solaris", 1972
	categoryID := int64(3)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO titles").WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	_, err := repo.CreateTitle(context.Background(), models.TitleWrite{Name: &name, Year: &year, CategorySet: true, CategoryID: &categoryID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTitle_MissingTitle(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	name := "Stalker"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM titles WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateTitle(context.Background(), 5, models.TitleWrite{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTitle_CategoryRemovedMeanwhile(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	categoryID := int64(3)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE titles SET category_id = $1 WHERE id = $2")).
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	_, err := repo.UpdateTitle(context.Background(), 5, models.TitleWrite{CategorySet: true, CategoryID: &categoryID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTitle_ClearsCategoryAndReplacesGenres(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	genres := []int64{}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE titles SET category_id = $1 WHERE id = $2")).
		WithArgs(nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM title_genres WHERE title_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM titles t").
		WillReturnRows(sqlmock.NewRows(titleRowColumns).
			AddRow(int64(5), "Solaris", 1972, nil, nil, nil, nil, nil))
	mock.ExpectQuery("FROM title_genres").WillReturnRows(genreRows())

	title, err := repo.UpdateTitle(context.Background(), 5, models.TitleWrite{CategorySet: true, GenreIDs: &genres})
	require.NoError(t, err)
	assert.Nil(t, title.Category)
	assert.Empty(t, title.Genre)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTitle(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM titles WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteTitle(context.Background(), 5), ErrNotFound)
}

func TestDeleteTitle_DriverError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTitleRepository(db, logger.Nop())

	mock.ExpectExec("DELETE FROM titles").WillReturnError(errors.New("boom"))

	assert.ErrorIs(t, repo.DeleteTitle(context.Background(), 5), ErrExecutingQuery)
}
