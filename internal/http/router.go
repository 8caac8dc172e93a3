package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/folio/internal/http/auth"
	"github.com/MrJamesThe3rd/folio/internal/http/category"
	"github.com/MrJamesThe3rd/folio/internal/http/chat"
	"github.com/MrJamesThe3rd/folio/internal/http/export"
	"github.com/MrJamesThe3rd/folio/internal/http/importcsv"
	"github.com/MrJamesThe3rd/folio/internal/http/portfolio"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer-token checks on /api/v1 when set.
	JWTSecret string
}

func New(
	opts Options,
	categoriesV1 *category.Handler,
	portfolioV1 *portfolio.Handler,
	chatV1 *chat.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         86400,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireToken(opts.JWTSecret))

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			portfolioV1.Routes(r)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			chatV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
