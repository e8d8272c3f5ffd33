package http

import (
	"net/http"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/utils"
	"github.com/MKhiriev/go-yamdb/models"
)

// signup registers the identity, or re-arms it, and mails a fresh
// confirmation code. The request body is echoed back.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SignupRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.signup").Msg("invalid JSON was passed")
		writeError(w, r, err)
		return
	}

	echo, err := h.services.AuthService.RequestSignup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, echo, http.StatusOK)
}

// token exchanges a confirmation code for an access token.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.token").Msg("invalid JSON was passed")
		writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.ExchangeToken(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("func", "*Handler.token").Int64("user_id", token.UserID).Msg("access token issued")

	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString}, http.StatusOK)
}
