package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

// RequestTimeout bounds every API request
const RequestTimeout = 30 * time.Second

// Routes builds the HTTP router. Everything under /api/v1 requires X-User-ID.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", h.SwaggerDoc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.UserMiddleware)

		r.Route("/runs", func(r chi.Router) {
			r.Post("/", h.CreateRun)
			r.Get("/", h.ListRuns)

			r.Route("/{runID}", func(r chi.Router) {
				r.Get("/", h.GetRun)
				r.Patch("/", h.UpdateRun)
				r.Delete("/", h.DeleteRun)
				r.Post("/complete", h.CompleteRun)
				r.Get("/chunks", h.GetRunChunks)
				r.Get("/insights", h.GetRunInsights)

				r.Post("/games", h.LogGame)
				r.Put("/games/{gameID}", h.UpdateGame)
				r.Delete("/games/{gameID}", h.DeleteGame)
			})
		})

		r.Get("/analytics/chunks", h.GetChunkAnalytics)
		r.Get("/analytics/dashboard", h.GetDashboard)

		r.Get("/achievements", h.GetAchievements)
		r.Get("/achievements/definitions", h.GetAchievementDefinitions)
		r.Post("/achievements/recalculate", h.RecalculateAchievements)

		r.Post("/leagues", h.CreateLeague)
		r.Get("/leagues", h.ListLeagues)
		r.Post("/leagues/join", h.JoinLeague)
		r.Get("/leagues/{leagueID}/standings", h.GetStandings)

		r.Get("/settings/notifications", h.GetNotificationSettings)
		r.Put("/settings/notifications", h.UpdateNotificationSettings)
	})

	return r
}

// SwaggerDoc serves the registered OpenAPI document
// @Summary OpenAPI document
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /swagger/doc.json [get]
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, "API docs not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
