package handlers

import (
	"net/http"

	"github.com/futchampions/tracker-api/internal/worker"
)

// GetAchievements returns the caller's progress toward every achievement
// @Summary User Achievements
// @Tags Achievements
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param version query string false "Game version"
// @Success 200 {array} models.UserAchievement
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /achievements [get]
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.achievements.GetUserAchievements(r.Context(), userIDFromContext(r.Context()), h.version(r))
	if err != nil {
		h.serviceError(w, "achievements", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, list)
}

// GetAchievementDefinitions lists the static achievement catalog
// @Summary Achievement Definitions
// @Tags Achievements
// @Produce json
// @Success 200 {array} models.AchievementDefinition
// @Router /achievements/definitions [get]
func (h *Handler) GetAchievementDefinitions(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.achievements.Definitions())
}

// RecalculateAchievements queues a full re-evaluation for the caller
// @Summary Recalculate Achievements
// @Tags Achievements
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param version query string false "Game version"
// @Success 202 {object} map[string]string
// @Failure 503 {object} map[string]string "Queue full"
// @Router /achievements/recalculate [post]
func (h *Handler) RecalculateAchievements(w http.ResponseWriter, r *http.Request) {
	version := h.version(r)
	if h.recalc == nil || !h.recalc.Enqueue(worker.RecalcJob{UserID: userIDFromContext(r.Context()), Version: version}) {
		h.errorResponse(w, http.StatusServiceUnavailable, "Recalculation queue full")
		return
	}
	h.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "queued", "version": version})
}
