package http

import (
	"net/http"

	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID tags the request with the client supplied trace id, or a new
// one, and stores a logger carrying it in the request context.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.WithTraceID(traceID)
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
