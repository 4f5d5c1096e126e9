package handlers

import (
	"net/http"

	"github.com/futchampions/tracker-api/internal/logic"
)

// GetChunkAnalytics returns the chunk split of every run plus the best and
// worst window across the caller's history
// @Summary Chunk Analytics
// @Description Per-run beginning (1-5), middle (6-10) and end (11-15) aggregates
// @Tags Analytics
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param version query string false "Game version"
// @Success 200 {object} models.ChunkAnalytics
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /analytics/chunks [get]
func (h *Handler) GetChunkAnalytics(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.ListRuns(r.Context(), userIDFromContext(r.Context()), h.version(r))
	if err != nil {
		h.serviceError(w, "chunk analytics", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, logic.AnalyzeChunks(runs))
}

// GetDashboard returns the caller's overview for one game version
// @Summary Dashboard
// @Tags Analytics
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param version query string false "Game version"
// @Success 200 {object} models.Dashboard
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /analytics/dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.dashboard.GetDashboard(r.Context(), userIDFromContext(r.Context()), h.version(r))
	if err != nil {
		h.serviceError(w, "dashboard", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, dash)
}
