package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/policy"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/internal/validators"
	"github.com/MKhiriev/go-yamdb/models"
)

// contentService manages reviews and comments. Every operation first
// resolves the parent chain (title, then review) so a resource addressed
// under the wrong parent is reported as missing.
type contentService struct {
	titles    store.TitleRepository
	reviews   store.ReviewRepository
	comments  store.CommentRepository
	validator validators.Validator
	logger    *logger.Logger
}

func NewContentService(titles store.TitleRepository, reviews store.ReviewRepository, comments store.CommentRepository, logger *logger.Logger) ContentService {
	return &contentService{
		titles:    titles,
		reviews:   reviews,
		comments:  comments,
		validator: validators.NewRequestValidator(),
		logger:    logger,
	}
}

// ── reviews ──────────────────────────────────────────────────────────────────

func (s *contentService) ListReviews(ctx context.Context, titleID int64, page models.PageRequest) ([]models.Review, int, error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := s.reviews.ListReviews(ctx, titleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *contentService) GetReview(ctx context.Context, titleID, reviewID int64) (models.Review, error) {
	review, err := s.reviews.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return models.Review{}, mapContentError(err)
	}

	return review, nil
}

func (s *contentService) CreateReview(ctx context.Context, caller models.Caller, titleID int64, input models.ContentInput) (models.Review, error) {
	if err := authorizeContent(caller, policy.ActionCreate, 0); err != nil {
		return models.Review{}, err
	}

	if err := s.titleExists(ctx, titleID); err != nil {
		return models.Review{}, err
	}

	if err := s.validator.Validate(ctx, input, validators.ScopeCreate, validators.ScopeReview); err != nil {
		return models.Review{}, validationError(err)
	}

	review, err := s.reviews.CreateReview(ctx, models.Review{
		Content: models.Content{AuthorID: caller.UserID, Text: *input.Text},
		TitleID: titleID,
		Score:   *input.Score,
	})
	if errors.Is(err, store.ErrReviewAlreadyExists) {
		return models.Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return models.Review{}, mapContentError(err)
	}

	return review, nil
}

func (s *contentService) UpdateReview(ctx context.Context, caller models.Caller, titleID, reviewID int64, input models.ContentInput) (models.Review, error) {
	review, err := s.ownedReview(ctx, caller, policy.ActionUpdate, titleID, reviewID)
	if err != nil {
		return models.Review{}, err
	}

	if err = s.validator.Validate(ctx, input, validators.ScopeReview); err != nil {
		return models.Review{}, validationError(err)
	}

	if input.Text == nil && input.Score == nil {
		return review, nil
	}

	updated, err := s.reviews.UpdateReview(ctx, reviewID, input)
	if err != nil {
		return models.Review{}, mapContentError(err)
	}

	return updated, nil
}

func (s *contentService) DeleteReview(ctx context.Context, caller models.Caller, titleID, reviewID int64) error {
	review, err := s.ownedReview(ctx, caller, policy.ActionDelete, titleID, reviewID)
	if err != nil {
		return err
	}

	if err = s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return mapContentError(err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "*contentService.DeleteReview").
		Str("deleted_by", caller.Username).
		Int64("review_id", reviewID).
		Int64("author_id", review.AuthorID).
		Msg("review deleted")

	return nil
}

// ownedReview loads the review and authorizes action against its author.
func (s *contentService) ownedReview(ctx context.Context, caller models.Caller, action policy.Action, titleID, reviewID int64) (models.Review, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return models.Review{}, err
	}

	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return models.Review{}, err
	}

	if err = authorizeContent(caller, action, review.AuthorID); err != nil {
		return models.Review{}, err
	}

	return review, nil
}

// ── comments ─────────────────────────────────────────────────────────────────

func (s *contentService) ListComments(ctx context.Context, titleID, reviewID int64, page models.PageRequest) ([]models.Comment, int, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.comments.ListComments(ctx, reviewID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing comments: %w", err)
	}

	return comments, total, nil
}

func (s *contentService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}

	comment, err := s.comments.GetComment(ctx, reviewID, commentID)
	if err != nil {
		return models.Comment{}, mapContentError(err)
	}

	return comment, nil
}

func (s *contentService) CreateComment(ctx context.Context, caller models.Caller, titleID, reviewID int64, input models.ContentInput) (models.Comment, error) {
	if err := authorizeContent(caller, policy.ActionCreate, 0); err != nil {
		return models.Comment{}, err
	}

	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}

	if err := s.validator.Validate(ctx, input, validators.ScopeCreate); err != nil {
		return models.Comment{}, validationError(err)
	}

	comment, err := s.comments.CreateComment(ctx, models.Comment{
		Content:  models.Content{AuthorID: caller.UserID, Text: *input.Text},
		ReviewID: reviewID,
	})
	if err != nil {
		return models.Comment{}, mapContentError(err)
	}

	return comment, nil
}

func (s *contentService) UpdateComment(ctx context.Context, caller models.Caller, titleID, reviewID, commentID int64, input models.ContentInput) (models.Comment, error) {
	comment, err := s.ownedComment(ctx, caller, policy.ActionUpdate, titleID, reviewID, commentID)
	if err != nil {
		return models.Comment{}, err
	}

	if err = s.validator.Validate(ctx, input); err != nil {
		return models.Comment{}, validationError(err)
	}

	if input.Text == nil {
		return comment, nil
	}

	updated, err := s.comments.UpdateComment(ctx, commentID, input)
	if err != nil {
		return models.Comment{}, mapContentError(err)
	}

	return updated, nil
}

func (s *contentService) DeleteComment(ctx context.Context, caller models.Caller, titleID, reviewID, commentID int64) error {
	if _, err := s.ownedComment(ctx, caller, policy.ActionDelete, titleID, reviewID, commentID); err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return mapContentError(err)
	}

	return nil
}

func (s *contentService) ownedComment(ctx context.Context, caller models.Caller, action policy.Action, titleID, reviewID, commentID int64) (models.Comment, error) {
	if err := policy.RequireAuthenticated(caller); err != nil {
		return models.Comment{}, err
	}

	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return models.Comment{}, err
	}

	if err = authorizeContent(caller, action, comment.AuthorID); err != nil {
		return models.Comment{}, err
	}

	return comment, nil
}

func (s *contentService) titleExists(ctx context.Context, titleID int64) error {
	if _, err := s.titles.GetTitle(ctx, titleID); err != nil {
		return mapContentError(err)
	}
	return nil
}

func authorizeContent(caller models.Caller, action policy.Action, ownerID int64) error {
	return policy.Authorize(policy.Request{
		Caller:   caller,
		Action:   action,
		Resource: policy.ResourceContent,
		OwnerID:  ownerID,
	})
}

func mapContentError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("content storage error: %w", err)
}
