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

// catalogService manages the administrative catalog. Reads are public,
// every write requires an admin.
type catalogService struct {
	categories store.SlugNamedRepository
	genres     store.SlugNamedRepository
	titles     store.TitleRepository
	validator  validators.Validator
	logger     *logger.Logger
}

func NewCatalogService(categories, genres store.SlugNamedRepository, titles store.TitleRepository, logger *logger.Logger) CatalogService {
	return &catalogService{
		categories: categories,
		genres:     genres,
		titles:     titles,
		validator:  validators.NewRequestValidator(),
		logger:     logger,
	}
}

func (s *catalogService) dictionary(kind models.SlugKind) (store.SlugNamedRepository, error) {
	switch kind {
	case models.KindCategory:
		return s.categories, nil
	case models.KindGenre:
		return s.genres, nil
	default:
		return nil, fmt.Errorf("unknown dictionary %q", kind)
	}
}

func (s *catalogService) ListSlugNamed(ctx context.Context, kind models.SlugKind, filter models.SlugNamedFilter) ([]models.SlugNamed, int, error) {
	repo, err := s.dictionary(kind)
	if err != nil {
		return nil, 0, err
	}

	items, total, err := repo.ListSlugNamed(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing %s: %w", kind, err)
	}

	return items, total, nil
}

func (s *catalogService) CreateSlugNamed(ctx context.Context, caller models.Caller, kind models.SlugKind, item models.SlugNamed) (models.SlugNamed, error) {
	repo, err := s.dictionary(kind)
	if err != nil {
		return models.SlugNamed{}, err
	}

	if err = authorizeCatalog(caller, policy.ActionCreate); err != nil {
		return models.SlugNamed{}, err
	}

	if err = s.validator.Validate(ctx, item); err != nil {
		return models.SlugNamed{}, validationError(err)
	}

	created, err := repo.CreateSlugNamed(ctx, item)
	if errors.Is(err, store.ErrSlugAlreadyExists) {
		return models.SlugNamed{}, fieldError("slug", ErrSlugTaken)
	}
	if err != nil {
		return models.SlugNamed{}, fmt.Errorf("error creating %s entry: %w", kind, err)
	}

	return created, nil
}

func (s *catalogService) DeleteSlugNamed(ctx context.Context, caller models.Caller, kind models.SlugKind, slug string) error {
	repo, err := s.dictionary(kind)
	if err != nil {
		return err
	}

	if err = authorizeCatalog(caller, policy.ActionDelete); err != nil {
		return err
	}

	if err = repo.DeleteBySlug(ctx, slug); err != nil {
		return mapCatalogError(err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "*catalogService.DeleteSlugNamed").
		Str("kind", string(kind)).
		Str("slug", slug).
		Msg("entry deleted")

	return nil
}

func (s *catalogService) ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, int, error) {
	titles, total, err := s.titles.ListTitles(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing titles: %w", err)
	}

	return titles, total, nil
}

func (s *catalogService) GetTitle(ctx context.Context, titleID int64) (models.Title, error) {
	title, err := s.titles.GetTitle(ctx, titleID)
	if err != nil {
		return models.Title{}, mapCatalogError(err)
	}

	return title, nil
}

func (s *catalogService) CreateTitle(ctx context.Context, caller models.Caller, input models.TitleInput) (models.Title, error) {
	if err := authorizeCatalog(caller, policy.ActionCreate); err != nil {
		return models.Title{}, err
	}

	if err := s.validator.Validate(ctx, input, validators.ScopeCreate); err != nil {
		return models.Title{}, validationError(err)
	}

	write, err := s.resolve(ctx, input)
	if err != nil {
		return models.Title{}, err
	}

	title, err := s.titles.CreateTitle(ctx, write)
	if err != nil {
		return models.Title{}, mapCatalogError(err)
	}

	return title, nil
}

func (s *catalogService) UpdateTitle(ctx context.Context, caller models.Caller, titleID int64, input models.TitleInput) (models.Title, error) {
	if err := authorizeCatalog(caller, policy.ActionUpdate); err != nil {
		return models.Title{}, err
	}

	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Title{}, validationError(err)
	}

	write, err := s.resolve(ctx, input)
	if err != nil {
		return models.Title{}, err
	}

	title, err := s.titles.UpdateTitle(ctx, titleID, write)
	if err != nil {
		return models.Title{}, mapCatalogError(err)
	}

	return title, nil
}

func (s *catalogService) DeleteTitle(ctx context.Context, caller models.Caller, titleID int64) error {
	if err := authorizeCatalog(caller, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.titles.DeleteTitle(ctx, titleID); err != nil {
		return mapCatalogError(err)
	}

	return nil
}

// resolve replaces category and genre slugs with ids. Unknown slugs are
// reported as field errors. An empty category slug clears the category.
func (s *catalogService) resolve(ctx context.Context, input models.TitleInput) (models.TitleWrite, error) {
	write := models.TitleWrite{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if input.Category != nil {
		write.CategorySet = true

		if *input.Category != "" {
			found, err := s.categories.FindBySlugs(ctx, []string{*input.Category})
			if err != nil {
				return models.TitleWrite{}, fmt.Errorf("error resolving category: %w", err)
			}
			if len(found) == 0 {
				return models.TitleWrite{}, fieldError("category", fmt.Errorf("unknown category %q", *input.Category))
			}
			write.CategoryID = &found[0].ID
		}
	}

	if input.Genre != nil {
		slugs := unique(*input.Genre)

		known := make(map[string]int64, len(slugs))
		if len(slugs) > 0 {
			found, err := s.genres.FindBySlugs(ctx, slugs)
			if err != nil {
				return models.TitleWrite{}, fmt.Errorf("error resolving genres: %w", err)
			}
			for _, genre := range found {
				known[genre.Slug] = genre.ID
			}
		}

		ids := make([]int64, 0, len(slugs))
		for _, slug := range slugs {
			id, ok := known[slug]
			if !ok {
				return models.TitleWrite{}, fieldError("genre", fmt.Errorf("unknown genre %q", slug))
			}
			ids = append(ids, id)
		}
		write.GenreIDs = &ids
	}

	return write, nil
}

func authorizeCatalog(caller models.Caller, action policy.Action) error {
	return policy.Authorize(policy.Request{Caller: caller, Action: action, Resource: policy.ResourceCatalog})
}

// mapCatalogError translates storage errors. A category or genre removed
// between resolve and the write is reported like an unknown slug.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, store.ErrCategoryNotFound):
		return fieldError("category", errors.New("category no longer exists"))
	case errors.Is(err, store.ErrGenreNotFound):
		return fieldError("genre", errors.New("genre no longer exists"))
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("catalog storage error: %w", err)
}

// unique returns values without duplicates, keeping the first occurrence.
func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
