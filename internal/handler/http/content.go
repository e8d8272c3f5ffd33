package http

import (
	"net/http"

	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

// contentPath holds the identifiers of a nested content route. Only the
// segments present in the route are filled.
type contentPath struct {
	titleID   int64
	reviewID  int64
	commentID int64
}

func parseContentPath(r *http.Request, params ...string) (contentPath, error) {
	var p contentPath
	for _, name := range params {
		id, err := idParam(r, name)
		if err != nil {
			return contentPath{}, err
		}

		switch name {
		case titleIDParam:
			p.titleID = id
		case reviewIDParam:
			p.reviewID = id
		case commentIDParam:
			p.commentID = id
		}
	}
	return p, nil
}

// ── reviews ──────────────────────────────────────────────────────────────────

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.pageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reviews, total, err := h.services.ContentService.ListReviews(r.Context(), p.titleID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, page, total, reviews)
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam, reviewIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.services.ContentService.GetReview(r.Context(), p.titleID, p.reviewID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, review, http.StatusOK)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	p, err := parseContentPath(r, titleIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.ContentInput
	if err = utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.services.ContentService.CreateReview(r.Context(), caller, p.titleID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, review, http.StatusCreated)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	p, err := parseContentPath(r, titleIDParam, reviewIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.ContentInput
	if err = utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.services.ContentService.UpdateReview(r.Context(), caller, p.titleID, p.reviewID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, review, http.StatusOK)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam, reviewIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	caller := utils.GetCallerFromContext(r.Context())
	if err = h.services.ContentService.DeleteReview(r.Context(), caller, p.titleID, p.reviewID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ── comments ─────────────────────────────────────────────────────────────────

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam, reviewIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.pageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments, total, err := h.services.ContentService.ListComments(r.Context(), p.titleID, p.reviewID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, page, total, comments)
}

func (h *Handler) getComment(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam, reviewIDParam, commentIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.services.ContentService.GetComment(r.Context(), p.titleID, p.reviewID, p.commentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, comment, http.StatusOK)
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	p, err := parseContentPath(r, titleIDParam, reviewIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.ContentInput
	if err = utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.services.ContentService.CreateComment(r.Context(), caller, p.titleID, p.reviewID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, comment, http.StatusCreated)
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	p, err := parseContentPath(r, titleIDParam, reviewIDParam, commentIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.ContentInput
	if err = utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.services.ContentService.UpdateComment(r.Context(), caller, p.titleID, p.reviewID, p.commentID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, comment, http.StatusOK)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	p, err := parseContentPath(r, titleIDParam, reviewIDParam, commentIDParam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	caller := utils.GetCallerFromContext(r.Context())
	if err = h.services.ContentService.DeleteComment(r.Context(), caller, p.titleID, p.reviewID, p.commentID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
