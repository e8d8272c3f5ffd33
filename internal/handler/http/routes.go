package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	titleIDParam   = "title_id"
	reviewIDParam  = "review_id"
	commentIDParam = "comment_id"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(cors.Handler(h.corsOptions()))
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(h.authenticate)

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Get("/api/version", h.getServerVersion)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.signup)
		r.Post("/auth/token", h.token)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/me", h.getMe)
			r.Patch("/me", h.updateMe)
			r.Get("/{username}", h.getUser)
			r.Patch("/{username}", h.updateUser)
			r.Delete("/{username}", h.deleteUser)
		})

		r.Route("/categories", h.slugNamedRoutes(kindCategory))
		r.Route("/genres", h.slugNamedRoutes(kindGenre))

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", h.listTitles)
			r.Post("/", h.createTitle)

			r.Route("/{title_id:[0-9]+}", func(r chi.Router) {
				r.Get("/", h.getTitle)
				r.Patch("/", h.updateTitle)
				r.Delete("/", h.deleteTitle)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", h.listReviews)
					r.Post("/", h.createReview)

					r.Route("/{review_id:[0-9]+}", func(r chi.Router) {
						r.Get("/", h.getReview)
						r.Patch("/", h.updateReview)
						r.Delete("/", h.deleteReview)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", h.listComments)
							r.Post("/", h.createComment)
							r.Get("/{comment_id:[0-9]+}", h.getComment)
							r.Patch("/{comment_id:[0-9]+}", h.updateComment)
							r.Delete("/{comment_id:[0-9]+}", h.deleteComment)
						})
					})
				})
			})
		})
	})

	return router
}

func (h *Handler) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders: []string{traceIDHeader},
		MaxAge:         300,
	}
}
