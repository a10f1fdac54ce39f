package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the transport-level settings of the router.
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// NewRouter wires middleware and every route onto a chi mux.
func NewRouter(h *Handler, rc RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Timing)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if rc.Metrics != nil {
		r.Handle("/metrics", rc.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.RateLimit(rc.RateLimitPerSecond, rc.RateLimitBurst))

		r.Get("/categories", h.ListCategories)
		r.Post("/standings", h.PostStandings)
		r.Post("/analysis", h.PostAnalysis)
		r.Post("/trades", h.PostTrades)

		r.Route("/leagues/{leagueID}", func(r chi.Router) {
			r.Put("/", h.PutLeague)
			r.Delete("/", h.DeleteLeague)
			r.Get("/report", h.GetLeagueReport)
			r.Get("/teams/{teamID}/trades", h.GetTeamTrades)
		})
	})

	return r
}
