package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/mock"
	"github.com/MKhiriev/go-yamdb/internal/policy"
	"github.com/MKhiriev/go-yamdb/internal/store"
	"github.com/MKhiriev/go-yamdb/models"
)

type catalogMocks struct {
	categories *mock.MockSlugNamedRepository
	genres     *mock.MockSlugNamedRepository
	titles     *mock.MockTitleRepository
}

func newTestCatalogSvc(t *testing.T) (CatalogService, catalogMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := catalogMocks{
		categories: mock.NewMockSlugNamedRepository(ctrl),
		genres:     mock.NewMockSlugNamedRepository(ctrl),
		titles:     mock.NewMockTitleRepository(ctrl),
	}
	return NewCatalogService(m.categories, m.genres, m.titles, logger.Nop()), m
}

func fieldsOf(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	return fields
}

// ── categories and genres ────────────────────────────────────────────────────

func TestListSlugNamed_PicksDictionary(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	filter := models.SlugNamedFilter{Search: "dra", PageRequest: models.PageRequest{Page: 1, PageSize: 10}}

	m.genres.EXPECT().ListSlugNamed(gomock.Any(), filter).
		Return([]models.SlugNamed{{ID: 1, Name: "Drama", Slug: "drama"}}, 1, nil)

	items, total, err := svc.ListSlugNamed(context.Background(), models.KindGenre, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "drama", items[0].Slug)
}

func TestListSlugNamed_UnknownKind(t *testing.T) {
	svc, _ := newTestCatalogSvc(t)

	_, _, err := svc.ListSlugNamed(context.Background(), models.SlugKind("studios"), models.SlugNamedFilter{})
	assert.Error(t, err)
}

func TestCreateSlugNamed_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		caller  models.Caller
		wantErr error
	}{
		{name: "anonymous", caller: anonymous, wantErr: policy.ErrAuthenticationRequired},
		{name: "user", caller: plainUser, wantErr: policy.ErrForbidden},
		{name: "moderator", caller: moderator, wantErr: policy.ErrForbidden},
		{name: "admin", caller: admin},
		{name: "superuser", caller: superuser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestCatalogSvc(t)
			item := models.SlugNamed{Name: "Films", Slug: "films"}

			if tt.wantErr == nil {
				m.categories.EXPECT().CreateSlugNamed(gomock.Any(), item).
					Return(models.SlugNamed{ID: 1, Name: "Films", Slug: "films"}, nil)
			}

			_, err := svc.CreateSlugNamed(context.Background(), tt.caller, models.KindCategory, item)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestCreateSlugNamed_AuthorizationBeforeValidation verifies that an
// unauthorized caller learns nothing about the payload.
func TestCreateSlugNamed_AuthorizationBeforeValidation(t *testing.T) {
	svc, _ := newTestCatalogSvc(t)

	_, err := svc.CreateSlugNamed(context.Background(), plainUser, models.KindGenre, models.SlugNamed{Slug: "bad slug!"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestCreateSlugNamed_InvalidSlug(t *testing.T) {
	svc, _ := newTestCatalogSvc(t)

	_, err := svc.CreateSlugNamed(context.Background(), admin, models.KindGenre, models.SlugNamed{Name: "Sci-fi", Slug: "sci fi"})
	assert.Contains(t, fieldsOf(t, err), "slug")
}

func TestCreateSlugNamed_DuplicateSlug(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.genres.EXPECT().CreateSlugNamed(gomock.Any(), gomock.Any()).Return(models.SlugNamed{}, store.ErrSlugAlreadyExists)

	_, err := svc.CreateSlugNamed(context.Background(), admin, models.KindGenre, models.SlugNamed{Name: "Drama", Slug: "drama"})
	fields := fieldsOf(t, err)
	assert.ErrorIs(t, fields["slug"], ErrSlugTaken)
}

func TestDeleteSlugNamed(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc, m := newTestCatalogSvc(t)
		m.categories.EXPECT().DeleteBySlug(gomock.Any(), "films").Return(nil)

		assert.NoError(t, svc.DeleteSlugNamed(context.Background(), admin, models.KindCategory, "films"))
	})

	t.Run("missing", func(t *testing.T) {
		svc, m := newTestCatalogSvc(t)
		m.categories.EXPECT().DeleteBySlug(gomock.Any(), "films").Return(store.ErrNotFound)

		err := svc.DeleteSlugNamed(context.Background(), admin, models.KindCategory, "films")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("moderator", func(t *testing.T) {
		svc, _ := newTestCatalogSvc(t)

		err := svc.DeleteSlugNamed(context.Background(), moderator, models.KindCategory, "films")
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})
}

// ── titles ───────────────────────────────────────────────────────────────────

func TestGetTitle_Public(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.titles.EXPECT().GetTitle(gomock.Any(), int64(5)).Return(models.Title{ID: 5, Name: "Dune"}, nil)

	title, err := svc.GetTitle(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title.Name)
}

func TestGetTitle_Missing(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.titles.EXPECT().GetTitle(gomock.Any(), int64(5)).Return(models.Title{}, store.ErrNotFound)

	_, err := svc.GetTitle(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTitles_PassesFilter(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	filter := models.TitleFilter{GenreSlug: "drama", Year: 1999, PageRequest: models.PageRequest{Page: 2, PageSize: 5}}
	m.titles.EXPECT().ListTitles(gomock.Any(), filter).Return(nil, 6, nil)

	_, total, err := svc.ListTitles(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestCreateTitle_ResolvesSlugs(t *testing.T) {
	svc, m := newTestCatalogSvc(t)

	m.categories.EXPECT().FindBySlugs(gomock.Any(), []string{"films"}).
		Return([]models.SlugNamed{{ID: 3, Slug: "films"}}, nil)
	m.genres.EXPECT().FindBySlugs(gomock.Any(), []string{"drama", "comedy"}).
		Return([]models.SlugNamed{{ID: 8, Slug: "comedy"}, {ID: 7, Slug: "drama"}}, nil)
	m.titles.EXPECT().CreateTitle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, w models.TitleWrite) (models.Title, error) {
			require.True(t, w.CategorySet)
			require.NotNil(t, w.CategoryID)
			assert.Equal(t, int64(3), *w.CategoryID)
			require.NotNil(t, w.GenreIDs)
			assert.Equal(t, []int64{7, 8}, *w.GenreIDs)
			return models.Title{ID: 1, Name: *w.Name, Year: *w.Year}, nil
		},
	)

	title, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{
		Name:     ptr("Dune"),
		Year:     ptr(1984),
		Category: ptr("films"),
		Genre:    ptr([]string{"drama", "comedy", "drama"}),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), title.ID)
}

func TestCreateTitle_UnknownGenre(t *testing.T) {
	svc, m := newTestCatalogSvc(t)

	m.genres.EXPECT().FindBySlugs(gomock.Any(), []string{"drama", "nope"}).
		Return([]models.SlugNamed{{ID: 7, Slug: "drama"}}, nil)

	_, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{
		Name:  ptr("Dune"),
		Year:  ptr(1984),
		Genre: ptr([]string{"drama", "nope"}),
	})
	assert.Contains(t, fieldsOf(t, err), "genre")
}

func TestCreateTitle_UnknownCategory(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.categories.EXPECT().FindBySlugs(gomock.Any(), []string{"books"}).Return(nil, nil)

	_, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{
		Name:     ptr("Dune"),
		Year:     ptr(1965),
		Category: ptr("books"),
	})
	assert.Contains(t, fieldsOf(t, err), "category")
}

func TestCreateTitle_CategoryRemovedBeforeInsert(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.categories.EXPECT().FindBySlugs(gomock.Any(), []string{"books"}).
		Return([]models.SlugNamed{{ID: 3, Slug: "books"}}, nil)
	m.titles.EXPECT().CreateTitle(gomock.Any(), gomock.Any()).Return(models.Title{}, store.ErrCategoryNotFound)

	_, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{
		Name:     ptr("Dune"),
		Year:     ptr(1965),
		Category: ptr("books"),
	})
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, fieldsOf(t, err), "category")
}

func TestCreateTitle_MissingFields(t *testing.T) {
	svc, _ := newTestCatalogSvc(t)

	_, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "year")
}

func TestCreateTitle_FutureYear(t *testing.T) {
	svc, _ := newTestCatalogSvc(t)

	_, err := svc.CreateTitle(context.Background(), admin, models.TitleInput{Name: ptr("Later"), Year: ptr(9999)})
	assert.Contains(t, fieldsOf(t, err), "year")
}

func TestUpdateTitle_ClearsCategoryAndGenres(t *testing.T) {
	svc, m := newTestCatalogSvc(t)

	m.titles.EXPECT().UpdateTitle(gomock.Any(), int64(4), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, w models.TitleWrite) (models.Title, error) {
			assert.True(t, w.CategorySet)
			assert.Nil(t, w.CategoryID)
			require.NotNil(t, w.GenreIDs)
			assert.Empty(t, *w.GenreIDs)
			assert.Nil(t, w.Name)
			return models.Title{ID: 4}, nil
		},
	)

	_, err := svc.UpdateTitle(context.Background(), admin, 4, models.TitleInput{
		Category: ptr(""),
		Genre:    ptr([]string{}),
	})
	require.NoError(t, err)
}

func TestUpdateTitle_Missing(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.titles.EXPECT().UpdateTitle(gomock.Any(), int64(4), gomock.Any()).Return(models.Title{}, store.ErrNotFound)

	_, err := svc.UpdateTitle(context.Background(), admin, 4, models.TitleInput{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTitle_GenreRemovedBeforeUpdate(t *testing.T) {
	svc, m := newTestCatalogSvc(t)
	m.genres.EXPECT().FindBySlugs(gomock.Any(), []string{"drama"}).
		Return([]models.SlugNamed{{ID: 7, Slug: "drama"}}, nil)
	m.titles.EXPECT().UpdateTitle(gomock.Any(), int64(4), gomock.Any()).Return(models.Title{}, store.ErrGenreNotFound)

	_, err := svc.UpdateTitle(context.Background(), admin, 4, models.TitleInput{Genre: ptr([]string{"drama"})})
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, fieldsOf(t, err), "genre")
}

func TestDeleteTitle(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		svc, m := newTestCatalogSvc(t)
		m.titles.EXPECT().DeleteTitle(gomock.Any(), int64(4)).Return(nil)

		assert.NoError(t, svc.DeleteTitle(context.Background(), admin, 4))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, _ := newTestCatalogSvc(t)

		assert.ErrorIs(t, svc.DeleteTitle(context.Background(), anonymous, 4), policy.ErrAuthenticationRequired)
	})
}
