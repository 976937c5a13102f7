package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router around the handlers.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/viral", func(r chi.Router) {
			r.Post("/predict", h.PredictViral)
		})
		r.Route("/safety", func(r chi.Router) {
			r.Post("/assess", h.AssessSafety)
		})
		r.Route("/strategy", func(r chi.Router) {
			r.Post("/generate", h.GenerateStrategy)
			r.Get("/", h.ListStrategies)
			r.Get("/{id}", h.GetStrategy)
			r.Post("/{id}/optimize", h.OptimizeStrategy)
		})
	})

	return r
}
