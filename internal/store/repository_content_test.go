package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

var (
	reviewRowColumns  = []string{"id", "title_id", "author_id", "username", "text", "score", "pub_date"}
	commentRowColumns = []string{"id", "review_id", "author_id", "username", "text", "pub_date"}
	pubDate           = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// ─────────────────────────────────────────────────────────────────────────────
// Reviews
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews (title_id,author_id,text,score) VALUES ($1,$2,$3,$4) RETURNING id, title_id, author_id, (SELECT username FROM users WHERE user_id = reviews.author_id)")).
		WithArgs(int64(5), int64(7), "great", 9).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).
			AddRow(int64(1), int64(5), int64(7), "john", "great", 9, pubDate))

	review, err := repo.CreateReview(context.Background(), models.Review{
		Content: models.Content{AuthorID: 7, Text: "great"},
		TitleID: 5,
		Score:   9,
	})
	require.NoError(t, err)
	assert.Equal(t, "john", review.Author)
	assert.Equal(t, pubDate, review.PubDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "second review of the title", dbErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrReviewAlreadyExists},
		{name: "title vanished", dbErr: pgError(pgerrcode.ForeignKeyViolation), wantErr: ErrNotFound},
		{name: "driver error", dbErr: sql.ErrConnDone, wantErr: ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewReviewRepository(db, logger.Nop())

			mock.ExpectQuery("INSERT INTO reviews").WillReturnError(tt.dbErr)

			_, err := repo.CreateReview(context.Background(), models.Review{TitleID: 5, Score: 5})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetReview_ScopedToTitle(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews r JOIN users u ON u.user_id = r.author_id WHERE r.id = $1 AND r.title_id = $2")).
		WithArgs(int64(1), int64(6)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns))

	_, err := repo.GetReview(context.Background(), 6, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReviews(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews WHERE title_id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.title_id = $1 ORDER BY r.pub_date, r.id LIMIT 10 OFFSET 0")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).
			AddRow(int64(1), int64(5), int64(7), "john", "great", 9, pubDate).
			AddRow(int64(2), int64(5), int64(8), "jane", "meh", 4, pubDate))

	reviews, total, err := repo.ListReviews(context.Background(), 5, models.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reviews, 2)
	assert.Equal(t, "jane", reviews[1].Author)
}

func TestUpdateReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())

	score := 3
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reviews SET score = $1 WHERE id = $2 RETURNING")).
		WithArgs(3, int64(1)).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).
			AddRow(int64(1), int64(5), int64(7), "john", "great", 3, pubDate))

	review, err := repo.UpdateReview(context.Background(), 1, models.ContentInput{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 3, review.Score)
}

func TestDeleteReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteReview(context.Background(), 1))
	assert.ErrorIs(t, repo.DeleteReview(context.Background(), 2), ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Comments
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateComment(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments (review_id,author_id,text) VALUES ($1,$2,$3)")).
		WithArgs(int64(1), int64(7), "agreed").
		WillReturnRows(sqlmock.NewRows(commentRowColumns).
			AddRow(int64(10), int64(1), int64(7), "john", "agreed", pubDate))

	comment, err := repo.CreateComment(context.Background(), models.Comment{
		Content:  models.Content{AuthorID: 7, Text: "agreed"},
		ReviewID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), comment.ID)
	assert.Equal(t, "john", comment.Author)
}

func TestCreateComment_ReviewVanished(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, logger.Nop())

	mock.ExpectQuery("INSERT INTO comments").WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.CreateComment(context.Background(), models.Comment{ReviewID: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetComment(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cm.id = $1 AND cm.review_id = $2")).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(commentRowColumns).
			AddRow(int64(10), int64(1), int64(7), "john", "agreed", pubDate))

	comment, err := repo.GetComment(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), comment.AuthorID)
}

func TestListComments(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM comments WHERE review_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM comments cm").
		WillReturnRows(sqlmock.NewRows(commentRowColumns))

	comments, total, err := repo.ListComments(context.Background(), 1, models.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestUpdateComment_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCommentRepository(db, logger.Nop())

	text := "edited"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE comments SET text = $1 WHERE id = $2")).
		WithArgs("edited", int64(10)).
		WillReturnRows(sqlmock.NewRows(commentRowColumns))

	_, err := repo.UpdateComment(context.Background(), 10, models.ContentInput{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)
}
