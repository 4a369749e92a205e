package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/api/middleware"
	"github.com/freigent-ai/freigent/internal/handlers"
	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/orchestrator"
	"github.com/freigent-ai/freigent/internal/recommend"
	"github.com/freigent-ai/freigent/internal/store"
	"github.com/freigent-ai/freigent/internal/worker"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, profiles store.ProfileStore, h *hub.Hub, gen recommend.Generator, w *worker.Worker, orch *orchestrator.Orchestrator) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(64 * 1024)) // 64KB max body (profiles carry experience lists)
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - allow all origins (agents call from anywhere)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	hnd := handlers.NewHandler(profiles, h, gen, w, orch)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", hnd.Root)
	r.Get("/health", hnd.Health)

	// Profile and recommendation endpoints
	r.Route("/freigent/{user_id}", func(r chi.Router) {
		r.Post("/profile", hnd.UpsertProfile)
		r.Get("/profile", hnd.GetProfile)
		r.Post("/search", hnd.Search)
		r.Post("/auto_search", hnd.AutoSearch)
	})

	// Hub endpoints (in-memory agent directory and A2A messaging)
	r.Route("/hub", func(r chi.Router) {
		r.Post("/register_agent", hnd.RegisterAgent)
		r.Get("/agents", hnd.ListAgents)
		r.Post("/a2a/send", hnd.SendMessage)
		r.Get("/a2a/inbox/{agent_id}", hnd.GetInbox)
	})

	return r
}
