package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

const (
	kindCategory = models.KindCategory
	kindGenre    = models.KindGenre
)

// slugNamedRoutes mounts the list, create and delete endpoints shared by
// categories and genres.
func (h *Handler) slugNamedRoutes(kind models.SlugKind) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.listSlugNamed(kind))
		r.Post("/", h.createSlugNamed(kind))
		r.Delete("/{slug}", h.deleteSlugNamed(kind))
	}
}

func (h *Handler) listSlugNamed(kind models.SlugKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.pageRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		filter := models.SlugNamedFilter{
			Search:      r.URL.Query().Get("search"),
			PageRequest: page,
		}

		items, total, err := h.services.CatalogService.ListSlugNamed(r.Context(), kind, filter)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writePage(w, r, page, total, items)
	}
}

func (h *Handler) createSlugNamed(kind models.SlugKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := authenticated(w, r)
		if !ok {
			return
		}

		var item models.SlugNamed
		if err := utils.DecodeJSON(r, &item); err != nil {
			writeError(w, r, err)
			return
		}

		created, err := h.services.CatalogService.CreateSlugNamed(r.Context(), caller, kind, item)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, created, http.StatusCreated)
	}
}

func (h *Handler) deleteSlugNamed(kind models.SlugKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := utils.GetCallerFromContext(r.Context())

		err := h.services.CatalogService.DeleteSlugNamed(r.Context(), caller, kind, chi.URLParam(r, "slug"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// listTitles supports the category, genre (by slug), name (contains) and
// year (exact) filters.
func (h *Handler) listTitles(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	filter := models.TitleFilter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
		Year:         year,
		PageRequest:  page,
	}

	titles, total, err := h.services.CatalogService.ListTitles(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, page, total, titles)
}

func (h *Handler) getTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := idParam(r, titleIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	title, err := h.services.CatalogService.GetTitle(r.Context(), titleID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, title, http.StatusOK)
}

func (h *Handler) createTitle(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	var input models.TitleInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	title, err := h.services.CatalogService.CreateTitle(r.Context(), caller, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, title, http.StatusCreated)
}

func (h *Handler) updateTitle(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	titleID, err := idParam(r, titleIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.TitleInput
	if err = utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	title, err := h.services.CatalogService.UpdateTitle(r.Context(), caller, titleID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, title, http.StatusOK)
}

func (h *Handler) deleteTitle(w http.ResponseWriter, r *http.Request) {
	titleID, err := idParam(r, titleIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.CatalogService.DeleteTitle(r.Context(), utils.GetCallerFromContext(r.Context()), titleID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
