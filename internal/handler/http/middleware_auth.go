package http

import (
	"net/http"

	"github.com/MKhiriev/go-yamdb/internal/logger"
	"github.com/MKhiriev/go-yamdb/internal/utils"
)

// authenticate resolves the caller of the request.
//
// Requests without an "Authorization" header proceed as anonymous; whether
// that is enough is decided per operation. A header that is present but
// malformed, or a token that is expired, foreign or belongs to a deleted
// user, is rejected with 401 right away.
//
// On success the caller is stored with [utils.WithCaller] and the request
// logger is tagged with the username.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Str("func", "*Handler.authenticate").Send()
			writeError(w, r, ErrInvalidAuthorizationHeader)
			return
		}

		caller, err := h.services.AuthService.ResolveCaller(r.Context(), tokenString)
		if err != nil {
			log.Err(err).Str("func", "*Handler.authenticate").Msg("caller resolution failed")
			writeError(w, r, err)
			return
		}

		ctx := utils.WithCaller(r.Context(), caller)
		ctx = log.WithUsername(caller.Username).WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
