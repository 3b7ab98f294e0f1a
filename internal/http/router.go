package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daftarhq/daftar/internal/auth"
	authv1 "github.com/daftarhq/daftar/internal/http/auth"
	exportv1 "github.com/daftarhq/daftar/internal/http/export"
	importv1 "github.com/daftarhq/daftar/internal/http/importcsv"
	orderv1 "github.com/daftarhq/daftar/internal/http/order"
	summaryv1 "github.com/daftarhq/daftar/internal/http/summary"
	userv1 "github.com/daftarhq/daftar/internal/http/user"
)

func New(
	jwtSecret string,
	authV1 *authv1.Handler,
	ordersV1 *orderv1.Handler,
	importV1 *importv1.Handler,
	exportV1 *exportv1.Handler,
	summaryV1 *summaryv1.Handler,
	usersV1 *userv1.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSecret))

			r.Route("/orders", func(r chi.Router) {
				ordersV1.Routes(r)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAdmin)
					r.Use(middleware.AllowContentType("application/json"))
					ordersV1.Mutations(r)
				})
			})

			r.Route("/import", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				importV1.Routes(r)
			})

			r.Route("/export", exportV1.Routes)
			r.Route("/summary", summaryV1.Routes)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				usersV1.Routes(r)
			})
		})
	})

	return router
}
