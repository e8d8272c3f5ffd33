package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.UserService.Me(r.Context(), utils.GetCallerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.UpdateMe(r.Context(), caller, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := models.UserFilter{
		Search:      r.URL.Query().Get("search"),
		PageRequest: page,
	}

	users, total, err := h.services.UserService.ListUsers(r.Context(), utils.GetCallerFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePage(w, r, page, total, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	var user models.User
	if err := utils.DecodeJSON(r, &user); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.services.UserService.CreateUser(r.Context(), caller, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	caller := utils.GetCallerFromContext(r.Context())

	user, err := h.services.UserService.GetUser(r.Context(), caller, chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticated(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.UpdateUser(r.Context(), caller, chi.URLParam(r, "username"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller := utils.GetCallerFromContext(r.Context())

	if err := h.services.UserService.DeleteUser(r.Context(), caller, chi.URLParam(r, "username")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
