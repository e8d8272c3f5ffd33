package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/models"
)

// reviewRepository is the PostgreSQL-backed implementation of
// [ReviewRepository].
type reviewRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewReviewRepository constructs a [ReviewRepository].
func NewReviewRepository(db *DB, logger *logger.Logger) ReviewRepository {
	logger.Debug().Msg("creating review repository")
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

func scanReview(row rowScanner, review *models.Review) error {
	return row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
}

// CreateReview inserts the review. A second review of the same title by the
// same author yields [ErrReviewAlreadyExists]; a title deleted in the
// meantime yields [ErrNotFound].
func (r *reviewRepository) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertReviewQuery(review)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.CreateReview").Msg("failed to create query")
		return models.Review{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.Review
	if err = scanReview(r.db.QueryRowContext(ctx, query, args...), &created); err != nil {
		switch {
		case isUniqueViolation(err):
			log.Warn().
				Str("func", "*reviewRepository.CreateReview").
				Int64("title_id", review.TitleID).
				Int64("author_id", review.AuthorID).
				Msg("author already reviewed the title")
			return models.Review{}, ErrReviewAlreadyExists
		case isForeignKeyViolation(err):
			return models.Review{}, ErrNotFound
		}

		log.Err(err).Str("func", "*reviewRepository.CreateReview").Msg("failed to insert review")
		return models.Review{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *reviewRepository) GetReview(ctx context.Context, titleID, reviewID int64) (models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetReviewQuery(titleID, reviewID)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.GetReview").Msg("failed to create query")
		return models.Review{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var review models.Review
	if err = scanReview(r.db.QueryRowContext(ctx, query, args...), &review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrNotFound
		}

		log.Err(err).Str("func", "*reviewRepository.GetReview").Int64("review_id", reviewID).Msg("failed to get review")
		return models.Review{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return review, nil
}

func (r *reviewRepository) ListReviews(ctx context.Context, titleID int64, page models.PageRequest) ([]models.Review, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountReviewsQuery(titleID)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.ListReviews").Msg("failed to create count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*reviewRepository.ListReviews").Int64("title_id", titleID).Msg("failed to count reviews")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListReviewsQuery(titleID, page)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.ListReviews").Msg("failed to create query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.ListReviews").Int64("title_id", titleID).Msg("failed to execute query")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		if err = scanReview(rows, &review); err != nil {
			log.Err(err).Str("func", "*reviewRepository.ListReviews").Msg("failed to scan review row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*reviewRepository.ListReviews").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return reviews, total, nil
}

func (r *reviewRepository) UpdateReview(ctx context.Context, reviewID int64, input models.ContentInput) (models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateReviewQuery(reviewID, input)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.UpdateReview").Msg("failed to create query")
		return models.Review{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var review models.Review
	if err = scanReview(r.db.QueryRowContext(ctx, query, args...), &review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrNotFound
		}

		log.Err(err).Str("func", "*reviewRepository.UpdateReview").Int64("review_id", reviewID).Msg("failed to update review")
		return models.Review{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return review, nil
}

func (r *reviewRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	query, args, err := buildDeleteReviewQuery(reviewID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return execDelete(ctx, r.db, "*reviewRepository.DeleteReview", query, args)
}

// commentRepository is the PostgreSQL-backed implementation of
// [CommentRepository].
type commentRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewCommentRepository constructs a [CommentRepository].
func NewCommentRepository(db *DB, logger *logger.Logger) CommentRepository {
	logger.Debug().Msg("creating comment repository")
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

func scanComment(row rowScanner, comment *models.Comment) error {
	return row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
	)
}

func (r *commentRepository) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertCommentQuery(comment)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.CreateComment").Msg("failed to create query")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.Comment
	if err = scanComment(r.db.QueryRowContext(ctx, query, args...), &created); err != nil {
		if isForeignKeyViolation(err) {
			return models.Comment{}, ErrNotFound
		}

		log.Err(err).Str("func", "*commentRepository.CreateComment").Msg("failed to insert comment")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *commentRepository) GetComment(ctx context.Context, reviewID, commentID int64) (models.Comment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetCommentQuery(reviewID, commentID)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.GetComment").Msg("failed to create query")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var comment models.Comment
	if err = scanComment(r.db.QueryRowContext(ctx, query, args...), &comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}

		log.Err(err).Str("func", "*commentRepository.GetComment").Int64("comment_id", commentID).Msg("failed to get comment")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return comment, nil
}

func (r *commentRepository) ListComments(ctx context.Context, reviewID int64, page models.PageRequest) ([]models.Comment, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountCommentsQuery(reviewID)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Msg("failed to create count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Int64("review_id", reviewID).Msg("failed to count comments")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListCommentsQuery(reviewID, page)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Msg("failed to create query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Int64("review_id", reviewID).Msg("failed to execute query")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		if err = scanComment(rows, &comment); err != nil {
			log.Err(err).Str("func", "*commentRepository.ListComments").Msg("failed to scan comment row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return comments, total, nil
}

func (r *commentRepository) UpdateComment(ctx context.Context, commentID int64, input models.ContentInput) (models.Comment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateCommentQuery(commentID, input)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.UpdateComment").Msg("failed to create query")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var comment models.Comment
	if err = scanComment(r.db.QueryRowContext(ctx, query, args...), &comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}

		log.Err(err).Str("func", "*commentRepository.UpdateComment").Int64("comment_id", commentID).Msg("failed to update comment")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return comment, nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, commentID int64) error {
	query, args, err := buildDeleteCommentQuery(commentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return execDelete(ctx, r.db, "*commentRepository.DeleteComment", query, args)
}

// execDelete runs a DELETE and maps zero affected rows to [ErrNotFound].
func execDelete(ctx context.Context, db *DB, funcName, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute delete")
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
